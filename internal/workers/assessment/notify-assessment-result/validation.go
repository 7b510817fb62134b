package notifyassessmentresult

func GetInputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":     "object",
		"required": []interface{}{"assessmentId", "recommendations"},
		"properties": map[string]interface{}{
			"assessmentId":    map[string]interface{}{"type": "string", "minLength": 1},
			"studentName":     map[string]interface{}{"type": "string", "maxLength": 200},
			"contactEmail":    map[string]interface{}{"type": "string", "format": "email"},
			"contactPhone":    map[string]interface{}{"type": "string", "pattern": `^\+[1-9][0-9]{6,14}$`},
			"recommendations": map[string]interface{}{"type": "array", "minItems": 1},
		},
	}
}
