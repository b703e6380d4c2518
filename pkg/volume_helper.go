package pkg

import (
	"path"
	"strings"

	"github.com/digitalocean/godo"
)

const volumeMountRoot = "/mnt/"

// VolumeMountPoint returns the directory a volume is mounted on by the backup job
func VolumeMountPoint(volumeName string) string {
	return path.Join(volumeMountRoot, strings.Replace(volumeName, "-", "_", -1))
}

// VolumeAttachedTo reports whether the volume is attached to the droplet
func VolumeAttachedTo(volume *godo.Volume, dropletID int) bool {
	for _, id := range volume.DropletIDs {
		if id == dropletID {
			return true
		}
	}
	return false
}
