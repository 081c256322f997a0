package upgrade

import "github.com/dbeast/dbeast/internal/util/naming"

// BuildQueue filters records by the naming convention and collapses them into
// a queue holding one Project per URL. Records are visited in listing order,
// so the first record for a URL wins. Records without a URL are dropped.
func BuildQueue(records []ConnectionRecord, convention naming.Convention) []Project {
	queue, _ := buildQueue(records, convention)
	return queue
}

// buildQueue also returns the number of matching records dropped as duplicates.
func buildQueue(records []ConnectionRecord, convention naming.Convention) ([]Project, int) {
	seen := make(map[string]struct{})
	queue := make([]Project, 0, len(records))
	duplicates := 0

	for _, r := range records {
		if !convention.Matches(r.ID) || r.URL == "" {
			continue
		}
		if _, ok := seen[r.URL]; ok {
			duplicates++
			continue
		}
		seen[r.URL] = struct{}{}

		p := Project{
			Host:                  r.URL,
			AuthenticationEnabled: r.BasicAuth,
		}
		if r.BasicAuth {
			p.Username = r.BasicAuthUser
		}
		queue = append(queue, p)
	}

	return queue, duplicates
}
