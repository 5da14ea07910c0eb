package driven

import "context"

// AssetHost uploads generated images to a public hosting location and
// returns the hosted URL. The hosting provider is an external collaborator;
// only the upload shape is modelled.
type AssetHost interface {
	// Upload publishes the file at path under the given name and returns
	// its public URL.
	Upload(ctx context.Context, path, name string) (string, error)
}
