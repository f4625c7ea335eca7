// Package dedupe provides shared singleflight groups so concurrent callers
// asking for the same slow resource share one in-flight request.
package dedupe

import "golang.org/x/sync/singleflight"

// CatalogGroup deduplicates adversary catalog fetches keyed by
// keys.Catalog(tier).
var CatalogGroup singleflight.Group

// RunGroup deduplicates run snapshot loads keyed by run id.
var RunGroup singleflight.Group
