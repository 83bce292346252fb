package resources

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"

	"github.com/procureconcierge/portalbackend/models"
	"github.com/procureconcierge/portalbackend/permissions"
	"github.com/procureconcierge/portalbackend/server"
	"github.com/procureconcierge/portalbackend/storage"
	"github.com/procureconcierge/portalbackend/validation"
)

type FileResource struct {
	Files models.FileStore
	Blobs storage.BlobStore
}

func (r *FileResource) RouteNamespace() string { return "files" }

func parseAuthLevel(raw json.RawMessage) (models.AuthLevel, bool) {
	if len(raw) == 0 {
		return models.DefaultAuthLevel(), true
	}
	var level models.AuthLevel
	if err := json.Unmarshal(raw, &level); err != nil {
		return models.AuthLevel{}, false
	}
	switch level.Tag {
	case models.AuthLevelAny, models.AuthLevelSignedIn:
		return models.AuthLevel{Tag: level.Tag}, true
	case models.AuthLevelUserType:
		for _, t := range level.UserTypes {
			if _, ok := models.ParseUserType(string(t)); !ok {
				return models.AuthLevel{}, false
			}
		}
		return level, len(level.UserTypes) > 0
	}
	return models.AuthLevel{}, false
}

// Create stores an uploaded file, deduplicating by content hash: a
// re-upload of identical content returns the existing record with a 200
// instead of creating a duplicate.
func (r *FileResource) Create() server.Handler {
	return server.Handler{
		TransformRequest: server.IdentityTransform,
		Respond: func(ctx context.Context, req *server.Request) (server.Response, error) {
			respond := func(code int, value any) server.Response {
				return server.Basic(code, req.Session, server.JSON(value))
			}
			if !permissions.CreateFile(req.Session) {
				return respond(http.StatusUnauthorized, []string{permissions.ErrorMessage}), nil
			}
			body, ok := req.FileBody()
			if !ok {
				return respond(http.StatusBadRequest, []string{"File must be uploaded in a multipart request."}), nil
			}
			defer server.CleanupTmpFile(req.Logger, body.Path)

			authLevel, ok := parseAuthLevel(body.Metadata)
			if !ok {
				return respond(http.StatusBadRequest, []string{"Invalid metadata field."}), nil
			}
			validatedName := validation.FileName(body.Name)
			if !validatedName.Valid() {
				return respond(http.StatusBadRequest, validatedName.Errors()), nil
			}
			originalName := validatedName.Value("")

			content, err := os.Open(body.Path)
			if err != nil {
				return server.Response{}, err
			}
			hash, err := models.HashFile(originalName, content, authLevel)
			content.Close()
			if err != nil {
				return server.Response{}, err
			}

			existing, err := r.Files.FindByHash(ctx, hash)
			if err == nil {
				return respond(http.StatusOK, models.MakePublicFile(existing)), nil
			}
			if !errors.Is(err, models.ErrNotFound) {
				return server.Response{}, err
			}

			file := &models.File{
				OriginalName: originalName,
				Hash:         hash,
				AuthLevel:    authLevel,
			}
			if err := r.Files.Create(ctx, file); err != nil {
				// A concurrent upload of the same content won the race.
				if errors.Is(err, models.ErrDuplicateKey) {
					winner, ferr := r.Files.FindByHash(ctx, hash)
					if ferr != nil {
						return server.Response{}, ferr
					}
					return respond(http.StatusOK, models.MakePublicFile(winner)), nil
				}
				return server.Response{}, err
			}
			if err := r.Blobs.Put(ctx, file.StorageName(), body.Path); err != nil {
				return server.Response{}, err
			}
			return respond(http.StatusCreated, models.MakePublicFile(file)), nil
		},
	}
}

func (r *FileResource) ReadOne() server.Handler {
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
			return server.Basic(http.StatusOK, req.Session, server.JSON(models.MakePublicFile(file))), nil
		},
	}
}
