package domain

import "maps"

// HashManifest maps file paths to content hashes. It is the last known-good
// state of every file that took part in a successful compile.
type HashManifest map[string]string

// NewHashManifest returns an empty manifest.
func NewHashManifest() HashManifest {
	return make(HashManifest)
}

// Matches reports whether every given hash equals the recorded one.
func (m HashManifest) Matches(hashes map[string]string) bool {
	for path, hash := range hashes {
		if recorded, ok := m[path]; !ok || recorded != hash {
			return false
		}
	}
	return true
}

// Merge overwrites the entries for every given path.
func (m HashManifest) Merge(hashes map[string]string) {
	maps.Copy(m, hashes)
}
