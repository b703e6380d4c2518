package pkg

import (
	"github.com/digitalocean/go-metadata"
)

// GetRunningInstanceData returns current droplets data
func GetRunningInstanceData(opts ...metadata.ClientOption) (*metadata.Metadata, error) {
	var result *metadata.Metadata

	err := WithRetry("droplet metadata", func() error {
		var err error
		result, err = metadata.NewClient(opts...).Metadata()
		return err
	})

	return result, err
}
