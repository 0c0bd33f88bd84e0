package model

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// MaxBodyBytes - JSON 요청 본문 최대 크기 (base64 이미지 포함, main에서 설정값으로 덮어씀)
var MaxBodyBytes int64 = 32 << 20

// WriteJSON - JSON 응답 작성
func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// WriteError - 공통 에러 응답 작성
func WriteError(w http.ResponseWriter, status int, code, message string) {
	WriteJSON(w, status, ErrorResponse{
		Success:      false,
		ErrorMessage: message,
		ErrorCode:    code,
	})
}

// DecodeJSON - MaxBodyBytes 제한을 걸고 요청 본문 디코드
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
	return json.NewDecoder(r.Body).Decode(v)
}

// WriteDecodeError - DecodeJSON 실패 응답 (크기 초과는 413)
func WriteDecodeError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		WriteError(w, http.StatusRequestEntityTooLarge, ErrCodeTooLarge,
			fmt.Sprintf("Request body exceeds %d MB", tooLarge.Limit>>20))
		return
	}
	WriteError(w, http.StatusBadRequest, ErrCodeInvalidRequest, "Invalid request format")
}
