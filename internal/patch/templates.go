package patch

import "fmt"

// defaultWorkflowDocument is the complete generation workflow written when the
// conventional workflow file is absent.
const defaultWorkflowDocument = `name: Generate Profile SVGs

on:
  workflow_dispatch:
  schedule:
    - cron: "0 */12 * * *"
  push:
    paths:
      - "config.yml"
      - "generator/**"
      - ".github/workflows/generate-profile.yml"

permissions:
  contents: write

jobs:
  generate:
    runs-on: ubuntu-latest
    steps:
      - name: Checkout
        uses: actions/checkout@v4
        with:
          fetch-depth: 0

      - name: Setup Python
        uses: actions/setup-python@v5
        with:
          python-version: "3.11"

      - name: Install deps
        run: |
          python -m pip install --upgrade pip
          pip install -r requirements.txt

      - name: Generate SVGs
        run: |
          python -m generator.main

      - name: Commit generated SVGs
        run: |
          git status --porcelain
          if [ -n "$(git status --porcelain assets/generated)" ]; then
            git config user.name "github-actions[bot]"
            git config user.email "41898282+github-actions[bot]@users.noreply.github.com"
            git add assets/generated
            git commit -m "chore: update profile SVGs [skip ci]"
            git push
          else
            echo "No SVG changes to commit."
          fi
`

// profileConfigDocumentTemplate is the bundled English-language configuration
// document applied by the force-config option, parameterized by username.
const profileConfigDocumentTemplate = `# Galaxy Profile README Configuration
username: %s

profile:
  name: "Luerfel"
  tagline: "Software Engineer • Data & AI (NLP)"
  company: "Soepia"
  location: "Campinas, SP — Brazil"
  bio: |
    Building data-driven products.
    Interested in NLP, machine learning, and automation.
  philosophy: '"Keep shipping. Keep learning."'

social:
  email: "mluerfel@gmail.com"
  linkedin: "matheus-mendonca-65ba63243"
  website: ""

galaxy_arms:
  - name: "Data Science & ML"
    color: "synapse_cyan"
    items:
      - "Python"
      - "Pandas"
      - "Machine Learning"
      - "Data Analysis"

  - name: "NLP & Knowledge"
    color: "dendrite_violet"
    items:
      - "NLP"
      - "Information Extraction"
      - "Knowledge Graphs"
      - "Text Mining"

  - name: "Backend & Cloud"
    color: "axon_amber"
    items:
      - "Node.js"
      - "APIs"
      - "Docker"
      - "AWS"

projects: []

theme:
  void: "#080c14"
  nebula: "#0f1623"
  star_dust: "#1a2332"
  synapse_cyan: "#00d4ff"
  dendrite_violet: "#a78bfa"
  axon_amber: "#ffb020"
  text_bright: "#f1f5f9"
  text_dim: "#94a3b8"
  text_faint: "#64748b"

stats:
  metrics:
    - "commits"
    - "stars"
    - "prs"
    - "issues"
    - "repos"

languages:
  exclude:
    - "HTML"
    - "CSS"
    - "Shell"
    - "Makefile"
  max_display: 8
`

// RenderProfileConfigDocument renders the bundled configuration document for the given username.
func RenderProfileConfigDocument(username string) string {
	return fmt.Sprintf(profileConfigDocumentTemplate, username)
}
