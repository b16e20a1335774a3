package lastfm

// Track is the normalized recommendation-domain track. It is ephemeral:
// the population engine resolves it against the catalog provider and only
// the resulting identifier is ever persisted.
type Track struct {
	Title    string
	Artist   string
	Duration string
}
