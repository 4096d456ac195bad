// loader.go — Load render jobs from JSON/YAML files and .gsposter (ZIP)
// bundles carrying their own backgrounds and fonts.
package poster

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	postererrors "github.com/xob0t/GoPoster/pkg/errors"
)

// BundleExt is the file extension of job bundles.
const BundleExt = ".gsposter"

// bundleJobNames are tried in order inside a bundle.
var bundleJobNames = []string{"job.yaml", "job.yml", "job.json"}

// LoadJob reads one job from a JSON or YAML file, chosen by extension.
func LoadJob(path string) (*Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read job: %w", err)
	}
	var job Job
	if err := decode(path, data, &job); err != nil {
		return nil, fmt.Errorf("parse job %s: %w", path, err)
	}
	if job.Name == "" {
		job.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	}
	return &job, nil
}

// LoadJobs reads a batch file: either a list of jobs or an object with a
// "jobs" list. Unnamed jobs are numbered by position.
func LoadJobs(path string) ([]Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read batch: %w", err)
	}

	var jobs []Job
	if err := decode(path, data, &jobs); err != nil {
		var wrapped struct {
			Jobs []Job `yaml:"jobs" json:"jobs"`
		}
		if err2 := decode(path, data, &wrapped); err2 != nil {
			if postererrors.IsInvalidContent(err2) {
				err = err2
			}
			return nil, fmt.Errorf("parse batch %s: %w", path, err)
		}
		jobs = wrapped.Jobs
	}
	if len(jobs) == 0 {
		return nil, fmt.Errorf("batch %s contains no jobs", path)
	}
	for i := range jobs {
		if jobs[i].Name == "" {
			jobs[i].Name = fmt.Sprintf("poster-%03d", i+1)
		}
	}
	return jobs, nil
}

// Bundle is an extracted job bundle. Its asset directory holds the
// bundle's backgrounds/ and fonts/ directories.
type Bundle struct {
	Job       Job
	AssetsDir string
	FontsDir  string
}

// LoadBundle opens a bundle ZIP, extracts it to a temporary directory and
// parses its job file. The returned cleanup function removes the directory.
func LoadBundle(path string) (*Bundle, func(), error) {
	noop := func() {}

	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, noop, fmt.Errorf("open %s: %w", path, err)
	}
	defer r.Close()

	tmpDir, err := os.MkdirTemp("", "gsposter-*")
	if err != nil {
		return nil, noop, fmt.Errorf("create temp dir: %w", err)
	}
	cleanup := func() { os.RemoveAll(tmpDir) }

	if err := extractZip(&r.Reader, tmpDir); err != nil {
		cleanup()
		return nil, noop, fmt.Errorf("extract %s: %w", path, err)
	}

	for _, name := range bundleJobNames {
		jobPath := filepath.Join(tmpDir, name)
		if _, err := os.Stat(jobPath); err != nil {
			continue
		}
		job, err := LoadJob(jobPath)
		if err != nil {
			cleanup()
			return nil, noop, err
		}
		if job.Name == "job" {
			job.Name = strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		}
		return &Bundle{
			Job:       *job,
			AssetsDir: tmpDir,
			FontsDir:  filepath.Join(tmpDir, "fonts"),
		}, cleanup, nil
	}

	cleanup()
	return nil, noop, fmt.Errorf("bundle %s has no %s", path, strings.Join(bundleJobNames, " or "))
}

// decode parses JSON or YAML strictly. Content text fields of the wrong
// type are reported as *errors.InvalidContentError.
func decode(path string, data []byte, v any) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		dec := json.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()
		err := dec.Decode(v)
		var te *json.UnmarshalTypeError
		if errors.As(err, &te) {
			if field, ok := contentField(te.Field); ok {
				return postererrors.NewInvalidContentError(field, fmt.Sprintf("must be a %s, got %s", te.Type, te.Value), err)
			}
		}
		return err
	default:
		var doc yaml.Node
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return err
		}
		if err := checkContentNodes(&doc); err != nil {
			return err
		}
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		return dec.Decode(v)
	}
}

// contentField extracts the field below "content" from a JSON error path
// such as "jobs.content.title".
func contentField(path string) (string, bool) {
	parts := strings.Split(path, ".")
	for i, p := range parts {
		if p == "content" && i+1 < len(parts) {
			return strings.Join(parts[i+1:], "."), true
		}
	}
	return "", false
}

// contentTextFields must be YAML strings when present.
var contentTextFields = []string{"title", "body", "category"}

// checkContentNodes rejects non-string content text in a job, a list of
// jobs or a {jobs: [...]} document.
func checkContentNodes(doc *yaml.Node) error {
	if doc.Kind != yaml.DocumentNode || len(doc.Content) == 0 {
		return nil
	}
	root := doc.Content[0]

	var jobs []*yaml.Node
	switch root.Kind {
	case yaml.SequenceNode:
		jobs = root.Content
	case yaml.MappingNode:
		if list := mappingValue(root, "jobs"); list != nil && list.Kind == yaml.SequenceNode {
			jobs = list.Content
		} else {
			jobs = []*yaml.Node{root}
		}
	}

	for _, job := range jobs {
		content := mappingValue(job, "content")
		if content == nil || content.Kind != yaml.MappingNode {
			continue
		}
		for _, name := range contentTextFields {
			n := mappingValue(content, name)
			if n == nil || (n.Kind == yaml.ScalarNode && (n.Tag == "!!str" || n.Tag == "!!null")) {
				continue
			}
			return postererrors.NewInvalidContentError(name,
				fmt.Sprintf("must be a string, got %s (line %d)", yamlKind(n), n.Line), nil)
		}
	}
	return nil
}

func mappingValue(n *yaml.Node, key string) *yaml.Node {
	if n.Kind != yaml.MappingNode {
		return nil
	}
	for i := 0; i+1 < len(n.Content); i += 2 {
		if n.Content[i].Value == key {
			return n.Content[i+1]
		}
	}
	return nil
}

func yamlKind(n *yaml.Node) string {
	switch n.Kind {
	case yaml.MappingNode:
		return "a mapping"
	case yaml.SequenceNode:
		return "a list"
	case yaml.AliasNode:
		return "an alias"
	default:
		return strings.TrimPrefix(n.Tag, "!!")
	}
}

// extractZip extracts all files from a zip reader into destDir.
func extractZip(r *zip.Reader, destDir string) error {
	for _, f := range r.File {
		target := filepath.Join(destDir, f.Name)

		// Guard against zip slip.
		if !strings.HasPrefix(filepath.Clean(target), filepath.Clean(destDir)+string(os.PathSeparator)) {
			return fmt.Errorf("illegal path in zip: %s", f.Name)
		}

		if f.FileInfo().IsDir() {
			if err := os.MkdirAll(target, 0o755); err != nil {
				return err
			}
			continue
		}
		if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
			return err
		}
		if err := extractFile(f, target); err != nil {
			return err
		}
	}
	return nil
}

// extractFile writes a single zip entry to disk.
func extractFile(f *zip.File, target string) error {
	rc, err := f.Open()
	if err != nil {
		return err
	}
	defer rc.Close()

	out, err := os.Create(target)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, rc)
	return err
}
