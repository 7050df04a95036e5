package handlers

import (
	"errors"
	"net/http"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	mediasvc "github.com/fourpaws/backend/internal/services/media"
)

// StorageHandler serves locally stored media files. With the s3 backend
// configured there is nothing to serve from disk and every key is a 404.
type StorageHandler struct {
	storage *mediasvc.LocalStorage
	log     *zap.Logger
}

func NewStorageHandler(storage *mediasvc.LocalStorage, log *zap.Logger) *StorageHandler {
	return &StorageHandler{
		storage: storage,
		log:     log,
	}
}

func (h *StorageHandler) Serve(w http.ResponseWriter, r *http.Request) {
	if h.storage == nil {
		writeNotFound(w, "NOT_FOUND", "file not found")
		return
	}

	fileKey := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	abs, err := h.storage.ResolvePath(fileKey)
	if err != nil {
		if errors.Is(err, mediasvc.ErrOutsideRoot) {
			writeForbidden(w, "FORBIDDEN", "forbidden")
			return
		}
		if h.log != nil {
			h.log.Error("resolve storage path", zap.String("file_key", fileKey), zap.Error(err))
		}
		writeInternal(w, "INTERNAL_ERROR", "internal server error")
		return
	}

	info, err := os.Stat(abs)
	if err != nil || info.IsDir() {
		writeNotFound(w, "NOT_FOUND", "file not found")
		return
	}

	http.ServeFile(w, r, abs)
}
