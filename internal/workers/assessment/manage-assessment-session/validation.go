package manageassessmentsession

func GetInputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type":     "object",
		"required": []interface{}{"action"},
		"properties": map[string]interface{}{
			"sessionId": map[string]interface{}{"type": "string", "maxLength": 100},
			"action": map[string]interface{}{
				"type": "string",
				"enum": []interface{}{"start", "submit_transcript", "submit_personality", "modify_transcript", "retake"},
			},
			"institution": map[string]interface{}{"type": "string", "maxLength": 255},
			"studentId":   map[string]interface{}{"type": "string", "maxLength": 100},
			"subjects":    map[string]interface{}{"type": "array"},
			"responses":   map[string]interface{}{"type": "array"},
		},
		// Every action but start works on an existing session.
		"if": map[string]interface{}{
			"properties": map[string]interface{}{"action": map[string]interface{}{"const": "start"}},
		},
		"else": map[string]interface{}{
			"required": []interface{}{"sessionId"},
		},
	}
}
