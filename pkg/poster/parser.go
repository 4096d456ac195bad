// parser.go — Example job and batch files for goposter init.
package poster

// ExampleJob returns a sample job.yaml.
func ExampleJob() string {
	return `# goposter job. Render with: goposter render job.yaml -o poster.png
name: sample
content:
  title: "யாதும் ஊரே யாவரும் கேளிர்"
  body: |
    Every town is our town, every person our kin.
    Good and evil do not come from others;
    pain and relief come from within.
  category: poem
  style:
    textAlign: center
  branding:
    name: "Kaniyan Pungundranar"
    website: "www.example.com"
    social: "@purananuru"
options:
  theme: parchment
  resolution:
    preset: square
  format: png
  quality: 90
  effects:
    - type: shadow
      blur: 3
      opacity: 0.35
      offsetY: 2
`
}

// ExampleBatch returns a sample batch.yaml.
func ExampleBatch() string {
	return `# goposter batch. Render with: goposter batch batch.yaml -d out/
jobs:
  - name: quote
    content:
      title: "On craft"
      body: "Simplicity is prerequisite for reliability."
      category: quote
    options:
      resolution: { preset: instagram }
      format: webp
      quality: 90
  - name: article
    content:
      title: "Release notes"
      body: |
        The renderer now flows long bodies across two columns.
        Themes are loaded from a declarative table and can be replaced at start-up.
      category: article
    options:
      resolution: { width: 1600, height: 1200 }
      format: jpeg
`
}
