package generation

import (
	"bytes"
	"fmt"
	"text/template"
)

// promptData represents the data passed to the prompt templates
type promptData struct {
	Topic string
}

// Prompts renders the caption and image prompts for a topic.
type Prompts struct {
	caption *template.Template
	image   *template.Template
}

// NewPrompts parses the caption and image templates. Both may reference
// {{.Topic}}.
func NewPrompts(captionTemplate, imageTemplate string) (*Prompts, error) {
	caption, err := template.New("caption").Option("missingkey=error").Parse(captionTemplate)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse caption prompt template: %v", ErrInvalidConfig, err)
	}

	image, err := template.New("image").Option("missingkey=error").Parse(imageTemplate)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse image prompt template: %v", ErrInvalidConfig, err)
	}

	return &Prompts{caption: caption, image: image}, nil
}

// Caption renders the caption prompt for topic.
func (p *Prompts) Caption(topic string) (string, error) {
	return render(p.caption, topic)
}

// Image renders the image prompt for topic.
func (p *Prompts) Image(topic string) (string, error) {
	return render(p.image, topic)
}

func render(tmpl *template.Template, topic string) (string, error) {
	if topic == "" {
		return "", ErrEmptyTopic
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, promptData{Topic: topic}); err != nil {
		return "", fmt.Errorf("failed to execute %s prompt template: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}
