package web

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/vbonduro/staycheck/internal/domain"
)

const maxPhotoSize = 50 * 1024 * 1024 // 50 MB

// allowedImageTypes is the set of MIME types accepted for uploaded photos.
// net/http.DetectContentType handles JPEG, PNG, and GIF via magic-byte
// sniffing. WebP is detected separately since the WHATWG sniffing algorithm (and
// therefore the stdlib) does not include a WebP signature.
var allowedImageTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
	"image/gif":  true,
}

// isWebP reports whether data is a WebP image (RIFF container with "WEBP" at
// offset 8).
func isWebP(data []byte) bool {
	return len(data) >= 12 &&
		string(data[0:4]) == "RIFF" &&
		string(data[8:12]) == "WEBP"
}

// allowedImageMIME returns the detected MIME type and true if the data is an
// accepted image format, or ("", false) otherwise.
func allowedImageMIME(data []byte) (string, bool) {
	if isWebP(data) {
		return "image/webp", true
	}
	mime := http.DetectContentType(data)
	if allowedImageTypes[mime] {
		return mime, true
	}
	return "", false
}

func checkRoomIDs(r *http.Request) (checkID, roomID int64, err error) {
	if checkID, err = pathID(r, "check_id"); err != nil {
		return 0, 0, err
	}
	if roomID, err = pathID(r, "room_id"); err != nil {
		return 0, 0, err
	}
	return checkID, roomID, nil
}

func (s *Server) handleUploadPhoto(w http.ResponseWriter, r *http.Request) {
	checkID, roomID, err := checkRoomIDs(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxPhotoSize+1<<20)
	if err := r.ParseMultipartForm(maxPhotoSize); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "photo exceeds 50MB"})
			return
		}
		badRequest(w, "failed to parse form")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		badRequest(w, "image file required")
		return
	}
	defer closeWithLog(file, "upload file", s.logger)

	imageData, err := io.ReadAll(io.LimitReader(file, maxPhotoSize+1))
	if err != nil {
		s.logger.Error("read upload failed", "check_id", checkID, "room_id", roomID, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to read file"})
		return
	}
	if len(imageData) > maxPhotoSize {
		writeJSON(w, http.StatusRequestEntityTooLarge, errorResponse{Error: "photo exceeds 50MB"})
		return
	}

	mimeType, ok := allowedImageMIME(imageData)
	if !ok {
		badRequest(w, "unsupported image format")
		return
	}

	res, err := s.inspections.UploadPhoto(r.Context(), checkID, roomID, imageData, mimeType)
	if err != nil {
		s.logger.Error("upload photo failed", "check_id", checkID, "room_id", roomID, "error", err)
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, toUpload(res))
}

// handleSubmitAnalysis accepts an analysis payload produced elsewhere and
// synthesizes issues from it without a stored photo.
func (s *Server) handleSubmitAnalysis(w http.ResponseWriter, r *http.Request) {
	checkID, roomID, err := checkRoomIDs(r)
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxJSONBody))
	dec.UseNumber()
	var payload map[string]any
	if err := dec.Decode(&payload); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: domain.ErrInvalidAnalysisPayload.Error() + ": body is not a JSON object"})
		return
	}

	res, err := s.inspections.SynthesizeIssuesFromPhoto(r.Context(), checkID, roomID, payload)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, synthesisResponse{IssuesCreated: res.IssuesCreated, Issues: toIssues(res.Issues)})
}

func (s *Server) handleGetPhotoImage(w http.ResponseWriter, r *http.Request) {
	photoID, err := pathID(r, "id")
	if err != nil {
		badRequest(w, err.Error())
		return
	}

	img, err := s.inspections.GetPhotoImage(r.Context(), photoID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	defer closeWithLog(img.Body, "photo reader", s.logger)

	w.Header().Set("Content-Type", img.MimeType)
	w.Header().Set("Cache-Control", "private, max-age=86400")
	if _, err := io.Copy(w, img.Body); err != nil {
		s.logger.Error("write photo failed", "photo_id", photoID, "error", err)
	}
}
