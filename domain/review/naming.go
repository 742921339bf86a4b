package review

import (
	"fmt"
	"strconv"
	"strings"
)

// Naming conventions are the only schema this store has: relationships
// between objects are encoded in object names, not in any index.
const (
	commentsSuffix = "_comments.json"
	versionMarker  = "_version_"
)

// CommentsDocName returns the name of the comments document for a video.
func CommentsDocName(videoID string) string {
	return videoID + commentsSuffix
}

// VersionPrefix returns the name prefix shared by all version objects of
// a video.
func VersionPrefix(videoID string) string {
	return videoID + versionMarker
}

// VersionObjectName encodes a video id, version number and label into a
// version object name.
func VersionObjectName(videoID string, number int, label string) string {
	return fmt.Sprintf("%s%s%d_%s", videoID, versionMarker, number, label)
}

// IsVersionName reports whether an object name is version-tagged.
func IsVersionName(name string) bool {
	return strings.Contains(name, versionMarker)
}

// VersionName is the result of parsing a version object name: either a
// well-formed (number, label) pair or an unparseable raw name. Callers
// decide whether to default or surface the anomaly.
type VersionName struct {
	Number int
	Label  string

	// Unparseable is set when the name did not follow the convention.
	// Number and Label are zero-valued in that case and Raw holds the
	// original name.
	Unparseable bool
	Raw         string
}

// ParseVersionName parses the (number, label) pair back out of a version
// object name.
func ParseVersionName(name string) VersionName {
	idx := strings.Index(name, versionMarker)
	if idx < 0 {
		return VersionName{Unparseable: true, Raw: name}
	}

	rest := name[idx+len(versionMarker):]
	numStr, label, found := strings.Cut(rest, "_")
	if !found {
		return VersionName{Unparseable: true, Raw: name}
	}

	number, err := strconv.Atoi(numStr)
	if err != nil || number < 1 || label == "" {
		return VersionName{Unparseable: true, Raw: name}
	}

	return VersionName{Number: number, Label: label}
}

// OrUnknown collapses an unparseable name to the legacy defaults of
// version 1, label "Unknown".
func (v VersionName) OrUnknown() (int, string) {
	if v.Unparseable {
		return 1, "Unknown"
	}
	return v.Number, v.Label
}

// DisplayName strips the extension from an uploaded filename to produce
// the video's display name.
func DisplayName(fileName string) string {
	if idx := strings.LastIndex(fileName, "."); idx > 0 {
		return fileName[:idx]
	}
	return fileName
}
