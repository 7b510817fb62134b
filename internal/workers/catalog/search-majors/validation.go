package searchmajors

func GetInputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"query": map[string]interface{}{"type": "string", "maxLength": 200},
			"pathways": map[string]interface{}{
				"type": "array",
				"items": map[string]interface{}{
					"type": "string",
					"enum": []interface{}{"mathematics_science_1", "mathematics_science_2", "arts_humanities", "languages"},
				},
			},
			"difficulty": map[string]interface{}{
				"type": "array",
				"items": map[string]interface{}{
					"type": "string",
					"enum": []interface{}{"Easy", "Medium", "Hard", "Very Hard"},
				},
			},
			"maxDuration": map[string]interface{}{"type": "integer", "minimum": 0},
			"studentGpa":  map[string]interface{}{"type": "number", "minimum": 0, "maximum": 4},
			"university":  map[string]interface{}{"type": "string", "maxLength": 200},
			"sortBy": map[string]interface{}{
				"type": "string",
				"enum": []interface{}{"relevance", "salary", "requiredGpa", "duration"},
			},
			"page":     map[string]interface{}{"type": "integer", "minimum": 0},
			"pageSize": map[string]interface{}{"type": "integer", "minimum": 0, "maximum": 100},
		},
	}
}
