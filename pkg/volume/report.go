package volume

import (
	"io"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/jeremyhahn/go-rtadmin/pkg/token"
)

// Report is the YAML document printed for a token's flash drive.
type Report struct {
	Token     string        `yaml:"token"`
	DriveSize string        `yaml:"drive_size"`
	Volumes   []VolumeEntry `yaml:"volumes"`
}

// VolumeEntry is one line of the volume table.
type VolumeEntry struct {
	ID     uint   `yaml:"id"`
	Size   string `yaml:"size"`
	Access string `yaml:"access"`
	Owner  string `yaml:"owner"`
}

// NewReport builds the report for a drive of driveSize megabytes.
func NewReport(serial string, driveSize uint64, volumes []token.VolumeInfo) Report {
	r := Report{
		Token:     serial,
		DriveSize: humanize.IBytes(driveSize * megabyte),
		Volumes:   make([]VolumeEntry, 0, len(volumes)),
	}
	for _, v := range volumes {
		r.Volumes = append(r.Volumes, VolumeEntry{
			ID:     v.ID,
			Size:   humanize.IBytes(v.Size * megabyte),
			Access: v.AccessMode.String(),
			Owner:  Name(v.Owner),
		})
	}
	return r
}

// Write encodes r as YAML.
func (r Report) Write(w io.Writer) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return err
	}
	return enc.Close()
}
