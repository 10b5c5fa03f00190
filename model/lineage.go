package model

import "sort"

// LatestByKey reduces a list of versions to one entry per form key,
// keeping the highest version seen for each. The result does not depend
// on input order.
func LatestByKey(versions []FormVersion) map[string]FormVersion {
	latest := make(map[string]FormVersion, len(versions))
	for _, v := range versions {
		if cur, ok := latest[v.FormKey]; !ok || v.Version > cur.Version {
			latest[v.FormKey] = v
		}
	}
	return latest
}

// VersionsForKey returns every version of one logical form, newest first.
func VersionsForKey(versions []FormVersion, formKey string) []FormVersion {
	chain := []FormVersion{}
	for _, v := range versions {
		if v.FormKey == formKey {
			chain = append(chain, v)
		}
	}
	sort.Slice(chain, func(i, j int) bool {
		return chain[i].Version > chain[j].Version
	})
	return chain
}
