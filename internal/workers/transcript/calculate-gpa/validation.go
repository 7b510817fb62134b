package calculategpa

func GetInputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":     "object",
		"required": []interface{}{"institution", "studentId", "subjects"},
		"properties": map[string]interface{}{
			"transcriptId": map[string]interface{}{"type": "string", "maxLength": 100},
			"institution":  map[string]interface{}{"type": "string", "maxLength": 255},
			"studentId":    map[string]interface{}{"type": "string", "maxLength": 100},
			"subjects": map[string]interface{}{
				"type": "array",
				"items": map[string]interface{}{
					"type":     "object",
					"required": []interface{}{"name", "grade", "creditHours"},
					"properties": map[string]interface{}{
						"name":        map[string]interface{}{"type": "string"},
						"grade":       map[string]interface{}{"type": "string"},
						"creditHours": map[string]interface{}{"type": "integer"},
						"semester":    map[string]interface{}{"type": "string"},
						"year":        map[string]interface{}{"type": "integer"},
					},
				},
			},
		},
	}
}
