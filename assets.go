package main

import "strings"

const defaultContentType = "application/octet-stream"

// assetContentTypes is the fixed table used for /files/ responses.
// Unknown extensions fall back to defaultContentType.
var assetContentTypes = map[string]string{
	".pdf":  "application/pdf",
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".mp4":  "video/mp4",
	".mp3":  "audio/mpeg",
	".txt":  "text/plain",
	".json": "application/json",
	".zip":  "application/zip",
}

func contentTypeFor(ext string) string {
	if ct, ok := assetContentTypes[strings.ToLower(ext)]; ok {
		return ct
	}
	return defaultContentType
}
