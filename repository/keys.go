package repository

// entityKeys builds the cache key namespace for one entity type. Every key
// lives under "repo:<entity>:" so a single prefix invalidation clears all
// cached views of the entity without touching anything else.
type entityKeys struct {
	entity string
}

func (k entityKeys) namespace() string {
	return "repo:" + k.entity + ":"
}

func (k entityKeys) all() string {
	return k.namespace() + "all"
}

func (k entityKeys) id(id string) string {
	return k.namespace() + "id:" + id
}

func (k entityKeys) find(suffix string) string {
	return k.namespace() + "find:" + suffix
}

func (k entityKeys) paginated(suffix string) string {
	return k.namespace() + "find:paginated:" + suffix
}

func (k entityKeys) count() string {
	return k.namespace() + "count"
}
