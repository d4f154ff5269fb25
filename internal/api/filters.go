package api

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/lei/hikvision-gateway/pkg/isapi/models"
	"github.com/lei/hikvision-gateway/pkg/isapi/services"
)

// FilterPersons filters persons by a case-insensitive name or employee number
// search and by user type. The device search cannot do either.
func FilterPersons(persons []models.Person, search string, userType models.UserType) []models.Person {
	if search == "" && userType == "" {
		return persons
	}

	filtered := make([]models.Person, 0, len(persons))
	searchLower := strings.ToLower(search)

	for _, p := range persons {
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Name), searchLower) &&
			!strings.Contains(strings.ToLower(p.EmployeeNo), searchLower) {
			continue
		}

		if userType != "" && p.UserType != userType {
			continue
		}

		filtered = append(filtered, p)
	}

	return filtered
}

// parsePage reads the page and pageSize query parameters. Missing values
// select the first page of the default size.
func parsePage(q url.Values) (services.Page, error) {
	page := services.FirstPage()

	if v := q.Get("page"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return services.Page{}, fmt.Errorf("invalid page %q", v)
		}
		page.Number = n
	}

	if v := q.Get("pageSize"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return services.Page{}, fmt.Errorf("invalid pageSize %q", v)
		}
		page.Size = n
	}

	return page.Normalize(), nil
}

// parseList collects a repeatable, comma separated query parameter
func parseList(q url.Values, key string) []string {
	var out []string
	for _, v := range q[key] {
		for _, item := range strings.Split(v, ",") {
			if item = strings.TrimSpace(item); item != "" {
				out = append(out, item)
			}
		}
	}
	return out
}

// parseBoolParam parses boolean query parameters
func parseBoolParam(value string) *bool {
	if value == "" {
		return nil
	}

	if value == "true" || value == "1" {
		result := true
		return &result
	}

	if value == "false" || value == "0" {
		result := false
		return &result
	}

	return nil
}
