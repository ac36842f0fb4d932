package feed

import (
	"os"

	"github.com/samber/lo"

	"devlink/models"
)

// Resolver turns a post's image reference pair into fetchable URLs at
// read time. Local files are authoritative only while every one of them
// is still on disk; once any has been cleaned up the whole post flips to
// the remote list. Mixing the two would expose broken links for the
// cleaned-up slots.
type Resolver struct {
	// Exists reports whether a local artifact is still present. Defaults
	// to an os.Stat check. A miss is data driving the fallback, never an
	// error.
	Exists func(path string) bool
}

func NewResolver() *Resolver {
	return &Resolver{Exists: fileExists}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Resolve returns either every local path rendered under base
// ("<scheme>://<host>"), or the full remote list, or an empty slice when
// neither is available ("no images yet"). Never an interleaving.
func (r *Resolver) Resolve(base string, post *models.Post) []string {
	exists := r.Exists
	if exists == nil {
		exists = fileExists
	}

	if len(post.ImagesLocal) > 0 && lo.EveryBy(post.ImagesLocal, exists) {
		return lo.Map(post.ImagesLocal, func(path string, _ int) string {
			return base + "/" + path
		})
	}

	return append([]string{}, post.ImagesRemote...)
}
