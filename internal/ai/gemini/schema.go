package gemini

import "google.golang.org/genai"

// presentationSchema is the strict response schema every synthesis request
// carries. Field names line up with the models package json tags, so the raw
// response text unmarshals straight into models.PresentationData.
func presentationSchema() *genai.Schema {
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"title":    {Type: genai.TypeString},
			"subtitle": {Type: genai.TypeString},
			"slides": {
				Type: genai.TypeArray,
				Items: &genai.Schema{
					Type: genai.TypeObject,
					Properties: map[string]*genai.Schema{
						"htmlContent": {
							Type:        genai.TypeString,
							Description: "The complete HTML/Tailwind string for the slide visual. Use inline styles or Tailwind classes. Root element should be a div with h-full w-full.",
						},
						"pptxContent": {
							Type: genai.TypeObject,
							Properties: map[string]*genai.Schema{
								"title":     {Type: genai.TypeString},
								"mainPoint": {Type: genai.TypeString},
								"bullets": {
									Type:  genai.TypeArray,
									Items: &genai.Schema{Type: genai.TypeString},
								},
								"codeBlock": {Type: genai.TypeString},
							},
							Required: []string{"title", "mainPoint", "bullets"},
						},
						"speakerNotes": {Type: genai.TypeString},
					},
					Required: []string{"htmlContent", "pptxContent", "speakerNotes"},
				},
			},
		},
		Required: []string{"title", "subtitle", "slides"},
	}
}
