package recordassessment

func GetInputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":     "object",
		"required": []interface{}{"transcript", "profile", "recommendations"},
		"properties": map[string]interface{}{
			"assessmentId": map[string]interface{}{"type": "string", "format": "uuid"},
			"sessionId":    map[string]interface{}{"type": "string", "maxLength": 100},
			"transcript": map[string]interface{}{
				"type":     "object",
				"required": []interface{}{"id", "studentId"},
				"properties": map[string]interface{}{
					"id":        map[string]interface{}{"type": "string", "minLength": 1},
					"studentId": map[string]interface{}{"type": "string", "minLength": 1},
				},
			},
			"profile": map[string]interface{}{
				"type":     "object",
				"required": []interface{}{"id"},
			},
			"recommendations": map[string]interface{}{"type": "array", "minItems": 1},
			"contactEmail":    map[string]interface{}{"type": "string", "format": "email"},
			"contactPhone":    map[string]interface{}{"type": "string", "pattern": `^\+[1-9][0-9]{6,14}$`},
		},
	}
}
