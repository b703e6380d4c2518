package cmd

import (
	"fmt"

	"github.com/feederco/innobackup-showinfo/pkg"
)

// resolveVolumeSearchRoot returns the mount point of a backup volume attached to this droplet
func resolveVolumeSearchRoot(volumeID string, dropletID int, digitalOceanClient *pkg.DigitalOceanClient) (string, error) {
	volume, err := digitalOceanClient.FindVolume(volumeID)
	if err != nil {
		return "", err
	}

	if !pkg.VolumeAttachedTo(volume, dropletID) {
		return "", fmt.Errorf("volume %s (%s) is not attached to this droplet (%d), attach and mount it first", volume.ID, volume.Name, dropletID)
	}

	mountDirectory := pkg.VolumeMountPoint(volume.Name)
	pkg.Verbosef("Volume %s is searched under %s\n", volume.ID, mountDirectory)

	return mountDirectory, nil
}
