package resources

import (
	"context"
	"errors"
	"mime"
	"net/http"
	"path/filepath"

	"github.com/procureconcierge/portalbackend/models"
	"github.com/procureconcierge/portalbackend/permissions"
	"github.com/procureconcierge/portalbackend/server"
	"github.com/procureconcierge/portalbackend/storage"
)

// FileBlobResource serves the raw bytes of stored files, enforcing each
// file's auth level. The record itself is public through FileResource; the
// bytes may not be.
type FileBlobResource struct {
	Files models.FileStore
	Blobs storage.BlobStore
}

func (r *FileBlobResource) RouteNamespace() string { return "fileBlobs" }

func (r *FileBlobResource) ReadOne() server.Handler {
	return server.Handler{
		TransformRequest: server.IdentityTransform,
		Respond: func(ctx context.Context, req *server.Request) (server.Response, error) {
			objectID, ok := parseObjectID(req.Param("id"))
			if !ok {
				return server.Basic(http.StatusNotFound, req.Session, server.JSON([]string{"File not found"})), nil
			}
			file, err := r.Files.FindByID(ctx, objectID)
			if err != nil {
				if errors.Is(err, models.ErrNotFound) {
					return server.Basic(http.StatusNotFound, req.Session, server.JSON([]string{"File not found"})), nil
				}
				return server.Response{}, err
			}
			if !permissions.ReadOneFileBlob(req.Session, file.AuthLevel) {
				return server.Basic(http.StatusUnauthorized, req.Session, server.JSON([]string{permissions.ErrorMessage})), nil
			}
			buffer, err := r.Blobs.Get(ctx, file.StorageName())
			if err != nil {
				return server.Response{}, err
			}
			contentType := mime.TypeByExtension(filepath.Ext(file.OriginalName))
			if contentType == "" {
				contentType = "application/octet-stream"
			}
			return server.Basic(http.StatusOK, req.Session, server.FileResponseBody{
				Buffer:      buffer,
				ContentType: contentType,
				FileName:    file.OriginalName,
			}), nil
		},
	}
}
