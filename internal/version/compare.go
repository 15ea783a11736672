package version

import (
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/marcusgoll/robinhood-algo-trading-bot-sub001/pkg/errors"
)

// CheckSchemaCompatibility reports whether a result written with
// writtenVersion can be read by a reader at readerVersion.
//
// Major and minor versions must match; patch versions may differ. A leading
// "v" is ignored and "main" on either side skips the check.
//
//   - written 1.0.3, reader 1.0.0 -> OK
//   - written 1.1.0, reader 1.0.0 -> ERROR (minor differs)
//   - written 2.0.0, reader 1.0.0 -> ERROR (major differs)
func CheckSchemaCompatibility(writtenVersion, readerVersion string) error {
	writtenVersion = strings.TrimPrefix(writtenVersion, "v")
	readerVersion = strings.TrimPrefix(readerVersion, "v")

	if writtenVersion == "main" || readerVersion == "main" {
		return nil
	}

	written, err := semver.NewVersion(writtenVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeVersionMismatch, err, "invalid result schema version '%s'", writtenVersion)
	}

	reader, err := semver.NewVersion(readerVersion)
	if err != nil {
		return errors.Wrapf(errors.ErrCodeVersionMismatch, err, "invalid reader schema version '%s'", readerVersion)
	}

	if written.Major() != reader.Major() {
		return errors.Newf(errors.ErrCodeVersionMismatch,
			"major version mismatch: result was written with schema %d.x.x but reader supports %d.x.x",
			written.Major(), reader.Major())
	}

	if written.Minor() != reader.Minor() {
		return errors.Newf(errors.ErrCodeVersionMismatch,
			"minor version mismatch: result was written with schema %d.%d.x but reader supports %d.%d.x",
			written.Major(), written.Minor(), reader.Major(), reader.Minor())
	}

	return nil
}
