package generaterecommendations

func GetInputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":     "object",
		"required": []interface{}{"transcript", "profile"},
		"properties": map[string]interface{}{
			"transcript": map[string]interface{}{
				"type":     "object",
				"required": []interface{}{"subjects", "gpa"},
				"properties": map[string]interface{}{
					"id":       map[string]interface{}{"type": "string"},
					"subjects": map[string]interface{}{"type": "array"},
					"gpa":      map[string]interface{}{"type": "number", "minimum": 0, "maximum": 4},
				},
			},
			"profile": map[string]interface{}{
				"type":     "object",
				"required": []interface{}{"responses", "scores"},
				"properties": map[string]interface{}{
					"id":        map[string]interface{}{"type": "string"},
					"responses": map[string]interface{}{"type": "array"},
					"scores":    map[string]interface{}{"type": "object"},
				},
			},
			"limit": map[string]interface{}{"type": "integer", "minimum": 0},
		},
	}
}
