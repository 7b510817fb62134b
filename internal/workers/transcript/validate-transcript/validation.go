package validatetranscript

// GetInputSchema only checks shapes; the transcript rules themselves are
// reported in the output so the student sees every problem at once.
func GetInputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":     "object",
		"required": []interface{}{"subjects"},
		"properties": map[string]interface{}{
			"institution": map[string]interface{}{"type": "string", "maxLength": 255},
			"studentId":   map[string]interface{}{"type": "string", "maxLength": 100},
			"subjects": map[string]interface{}{
				"type":  "array",
				"items": SubjectSchema(),
			},
		},
	}
}

func SubjectSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"id":          map[string]interface{}{"type": "string"},
			"name":        map[string]interface{}{"type": "string"},
			"grade":       map[string]interface{}{"type": "string"},
			"creditHours": map[string]interface{}{"type": "integer"},
			"semester":    map[string]interface{}{"type": "string"},
			"year":        map[string]interface{}{"type": "integer"},
		},
	}
}
