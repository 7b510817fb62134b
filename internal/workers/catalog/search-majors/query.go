package searchmajors

// buildQuery turns the search input into an Elasticsearch request body.
// Free text is scored; every other criterion is a non-scoring filter.
func buildQuery(input *Input, from, size int) map[string]interface{} {
	var must []interface{}
	if input.Query != "" {
		must = append(must, map[string]interface{}{
			"multi_match": map[string]interface{}{
				"query":     input.Query,
				"fields":    []string{"name^3", "relatedCareers^2", "description", "requiredSubjects", "pathwayName"},
				"fuzziness": "AUTO",
			},
		})
	} else {
		must = append(must, map[string]interface{}{"match_all": map[string]interface{}{}})
	}

	var filter []interface{}
	if len(input.Pathways) > 0 {
		filter = append(filter, map[string]interface{}{"terms": map[string]interface{}{"rebPathway": input.Pathways}})
	}
	if len(input.Difficulty) > 0 {
		filter = append(filter, map[string]interface{}{"terms": map[string]interface{}{"difficulty": input.Difficulty}})
	}
	if input.MaxDuration > 0 {
		filter = append(filter, map[string]interface{}{"range": map[string]interface{}{"duration": map[string]interface{}{"lte": input.MaxDuration}}})
	}
	if input.StudentGPA > 0 {
		filter = append(filter, map[string]interface{}{"range": map[string]interface{}{"requiredGPA": map[string]interface{}{"lte": input.StudentGPA}}})
	}
	if input.University != "" {
		filter = append(filter, map[string]interface{}{"term": map[string]interface{}{"rwandanUniversities": input.University}})
	}

	boolQuery := map[string]interface{}{"must": must}
	if len(filter) > 0 {
		boolQuery["filter"] = filter
	}

	return map[string]interface{}{
		"query": map[string]interface{}{"bool": boolQuery},
		"from":  from,
		"size":  size,
		"sort":  sortClause(input.SortBy),
	}
}

func sortClause(sortBy string) []interface{} {
	byName := map[string]interface{}{"name.raw": map[string]interface{}{"order": "asc"}}
	switch sortBy {
	case SortSalary:
		return []interface{}{map[string]interface{}{"entrySalary": map[string]interface{}{"order": "desc"}}, byName}
	case SortGPA:
		return []interface{}{map[string]interface{}{"requiredGPA": map[string]interface{}{"order": "asc"}}, byName}
	case SortDuration:
		return []interface{}{map[string]interface{}{"duration": map[string]interface{}{"order": "asc"}}, byName}
	}
	return []interface{}{"_score", byName}
}
