package controllers

import (
	"io"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/gfmachado/autorevenda/pkg/response"
	"github.com/gfmachado/autorevenda/pkg/router"
	"github.com/gfmachado/autorevenda/pkg/storage"
)

// FilesController streams stored vehicle images. It fronts whichever
// Disk is configured, so the storefront URL stays stable when storage
// moves from local to S3.
type FilesController struct {
	disk storage.Disk
}

func NewFilesController(disk storage.Disk) *FilesController {
	return &FilesController{disk: disk}
}

func (c *FilesController) Serve(w http.ResponseWriter, r *http.Request) {
	name := path.Clean(router.Param(r, "*"))
	if name == "" || name == "." || strings.Contains(name, "..") {
		response.NotFound(w, "Arquivo não encontrado.")
		return
	}

	src, err := c.disk.GetStream(name)
	if err != nil {
		response.NotFound(w, "Arquivo não encontrado.")
		return
	}
	defer src.Close()

	if ct := mime.TypeByExtension(path.Ext(name)); ct != "" {
		w.Header().Set("Content-Type", ct)
	}
	w.Header().Set("Cache-Control", "public, max-age=86400")
	io.Copy(w, src) //nolint:errcheck
}
