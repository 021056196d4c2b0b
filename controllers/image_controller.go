package controllers

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"matchview/helpers"
	"matchview/services"
)

// ImageController serves profile images according to the viewer's access
type ImageController struct {
	Images *services.ImageService
	Logger *zap.Logger
}

// NewImageController creates a new ImageController instance
func NewImageController(images *services.ImageService, logger *zap.Logger) *ImageController {
	return &ImageController{Images: images, Logger: logger}
}

// ProfileImages returns signed or blurred images of {username}
func (ic *ImageController) ProfileImages(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(r)
	if !ok {
		unauthorized(w)
		return
	}
	images, err := ic.Images.Images(r.Context(), sess, mux.Vars(r)["username"])
	if err != nil {
		writeError(w, r, ic.Logger, err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, map[string]any{"images": images})
}

// UploadURL issues a presigned PUT under the viewer's prefix
func (ic *ImageController) UploadURL(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(r)
	if !ok {
		unauthorized(w)
		return
	}
	var payload struct {
		FileName string `json:"fileName"`
		FileType string `json:"fileType"`
	}
	if err := helpers.DecodeJSON(r, &payload); err != nil {
		badRequest(w, "Invalid request payload")
		return
	}
	url, key, err := ic.Images.UploadURL(r.Context(), sess, payload.FileName, payload.FileType)
	if err != nil {
		writeError(w, r, ic.Logger, err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, map[string]string{"url": url, "fileName": key})
}

// ReadURL signs a GET for one of the viewer's own uploads
func (ic *ImageController) ReadURL(w http.ResponseWriter, r *http.Request) {
	sess, ok := session(r)
	if !ok {
		unauthorized(w)
		return
	}
	var payload struct {
		Key string `json:"key"`
	}
	if err := helpers.DecodeJSON(r, &payload); err != nil || payload.Key == "" {
		badRequest(w, "Invalid request payload")
		return
	}
	if !strings.HasPrefix(payload.Key, "profile-pics/"+sess.Username+"/") || strings.Contains(payload.Key, "..") {
		helpers.WriteErrorResponse(w, http.StatusForbidden, "Not your image")
		return
	}
	url, err := ic.Images.ReadURL(r.Context(), payload.Key)
	if err != nil {
		writeError(w, r, ic.Logger, err)
		return
	}
	helpers.WriteJSONResponse(w, http.StatusOK, map[string]string{"url": url})
}
