package scorepersonality

func GetInputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":     "object",
		"required": []interface{}{"responses"},
		"properties": map[string]interface{}{
			"profileId": map[string]interface{}{"type": "string", "maxLength": 100},
			"responses": map[string]interface{}{
				"type": "array",
				"items": map[string]interface{}{
					"type":     "object",
					"required": []interface{}{"questionId"},
					"properties": map[string]interface{}{
						"questionId": map[string]interface{}{"type": "string", "minLength": 1},
						"answer": map[string]interface{}{
							"type": []interface{}{"integer", "string", "boolean", "null"},
						},
					},
				},
			},
		},
	}
}
