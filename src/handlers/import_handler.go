package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/username/yuhfolio/src/config"
	"github.com/username/yuhfolio/src/logger"
	"github.com/username/yuhfolio/src/models"
	"github.com/username/yuhfolio/src/security/validation"
	"github.com/username/yuhfolio/src/services"
	"github.com/username/yuhfolio/src/utils"
)

type ImportHandler struct {
	importService services.ImportService
}

func NewImportHandler(service services.ImportService) *ImportHandler {
	return &ImportHandler{
		importService: service,
	}
}

// HandleImport accepts a multipart CSV upload and responds with the rows that
// were newly appended to the transaction log. An already-imported file yields
// an empty list, not an error.
func (h *ImportHandler) HandleImport(w http.ResponseWriter, r *http.Request) {
	ctxLogger := logger.FromContext(r.Context())

	if err := r.ParseMultipartForm(config.Cfg.MaxUploadSizeBytes); err != nil {
		ctxLogger.Warn("Failed to parse multipart form or request too large", "error", err, "limit", config.Cfg.MaxUploadSizeBytes)
		utils.SendJSONError(w, fmt.Sprintf("failed to parse upload or file too large (max %d MB)", config.Cfg.MaxUploadSizeBytes/(1024*1024)), http.StatusBadRequest)
		return
	}

	source := r.FormValue("source")
	if source == "" {
		source = "yuh"
	}

	file, fileHeader, err := r.FormFile("file")
	if err != nil {
		ctxLogger.Warn("Failed to retrieve file from request", "error", err)
		utils.SendJSONError(w, "Failed to retrieve file from request. Ensure 'file' field is used.", http.StatusBadRequest)
		return
	}
	defer file.Close()

	if fileHeader.Size > config.Cfg.MaxUploadSizeBytes {
		ctxLogger.Warn("Uploaded file too large", "fileSize", fileHeader.Size, "limit", config.Cfg.MaxUploadSizeBytes)
		utils.SendJSONError(w, fmt.Sprintf("file too large, max %d MB", config.Cfg.MaxUploadSizeBytes/(1024*1024)), http.StatusBadRequest)
		return
	}

	clientContentType := fileHeader.Header.Get("Content-Type")
	if err := validation.ValidateClientContentType(clientContentType); err != nil {
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}
	if _, err := validation.ValidateFileContentByMagicBytes(file); err != nil {
		ctxLogger.Warn("File content validation failed", "filename", fileHeader.Filename, "error", err)
		utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctxLogger.Info("Processing import", "source", source, "filename", fileHeader.Filename)

	newRows, err := h.importService.ProcessImport(file, source)
	if err != nil {
		var schemaErr *models.SchemaError
		if errors.As(err, &schemaErr) {
			ctxLogger.Warn("Import rejected: schema mismatch", "missing", schemaErr.MissingColumns)
			utils.SendJSONErrorWithDetails(w, "import file is missing required columns", schemaErr, http.StatusBadRequest)
			return
		}
		if errors.Is(err, services.ErrParsingFailed) {
			utils.SendJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		ctxLogger.Error("Import failed", "error", err)
		utils.SendJSONError(w, "failed to import file", http.StatusInternalServerError)
		return
	}

	ctxLogger.Info("Import complete", "newRows", len(newRows))
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"imported":     len(newRows),
		"transactions": newRows,
	})
}
