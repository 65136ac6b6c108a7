package download

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"path"
	"strings"
)

// FileHash derives the on-disk identity of an episode's media file from the
// show id, the display number padded to at least three digits, and the media
// URL. The hash names the file and joins scanner results back to store rows;
// it is an identity key, not a content checksum, which is why md5 is fine
// here and why existing archives keep their filenames across versions.
func FileHash(showID int64, displayNumber, url string) string {
	sum := md5.Sum([]byte(fmt.Sprintf("%d_%s_%s", showID, padNumber(displayNumber), url)))
	return hex.EncodeToString(sum[:])
}

func padNumber(number string) string {
	for len(number) < 3 {
		number = "0" + number
	}
	return number
}

// Extension extracts the media extension from a URL's path, ignoring any
// query string. Empty extensions default to ".mp3".
func Extension(rawURL string) string {
	trimmed, _, _ := strings.Cut(rawURL, "?")
	ext := path.Ext(path.Base(trimmed))
	if ext == "" {
		ext = ".mp3"
	}
	return ext
}

// FileName is the on-disk name for an episode's media: the unpadded display
// number, an underscore, the file hash, and the extension.
func FileName(displayNumber, hash, ext string) string {
	return displayNumber + "_" + hash + ext
}
