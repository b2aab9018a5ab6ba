package middleware

import (
	"compress/gzip"
	"io"
	"net/http"
	"strings"

	gingzip "github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
)

// Compression gzips responses for clients that accept it. Paths in
// uncompressed are served as is; event streams must be flushed per event and
// cannot sit behind a compressor.
func Compression(uncompressed ...string) gin.HandlerFunc {
	return gingzip.Gzip(gingzip.DefaultCompression, gingzip.WithExcludedPaths(uncompressed))
}

// DecompressRequest transparently handles gzip encoded requests.
func DecompressRequest() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !strings.Contains(c.GetHeader("Content-Encoding"), "gzip") {
			c.Next()
			return
		}

		originalBody := c.Request.Body
		reader, err := gzip.NewReader(originalBody)
		if err != nil {
			abort(c, http.StatusBadRequest, "malformed gzip body")
			return
		}
		defer reader.Close()
		defer originalBody.Close()

		c.Request.Body = io.NopCloser(reader)
		c.Request.Header.Del("Content-Encoding")
		c.Request.Header.Del("Content-Length")
		c.Request.ContentLength = -1
		c.Next()
	}
}
