package utils

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	_ "image/jpeg" // JPEG 디코더 등록
	"image/png"
	"math"
	"net/http"
	"strings"

	_ "github.com/kolesa-team/go-webp/decoder" // WebP 디코더 등록
	"github.com/kolesa-team/go-webp/encoder"
	"github.com/kolesa-team/go-webp/webp"
	"github.com/rs/zerolog/log"
	"golang.org/x/image/draw"
)

// DecodeBase64Image - base64 (data URL 포함) 문자열을 바이너리로 변환
func DecodeBase64Image(s string) ([]byte, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, fmt.Errorf("empty image data")
	}

	// "data:image/png;base64,...." 형태면 헤더 제거
	if strings.HasPrefix(s, "data:") {
		idx := strings.Index(s, ",")
		if idx < 0 {
			return nil, fmt.Errorf("malformed data URL")
		}
		s = s[idx+1:]
	}

	data, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		// 패딩 없는 base64도 허용
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(s, "="))
		if err != nil {
			return nil, fmt.Errorf("failed to decode base64 image: %w", err)
		}
	}
	return data, nil
}

// ConvertImageToBase64 - 이미지 바이너리를 base64로 변환
func ConvertImageToBase64(imageData []byte) string {
	return base64.StdEncoding.EncodeToString(imageData)
}

// DetectMIMEType - 매직 바이트로 이미지 MIME 타입 판별 (알 수 없으면 image/png)
func DetectMIMEType(data []byte) string {
	mimeType := http.DetectContentType(data)
	if strings.HasPrefix(mimeType, "image/") {
		return mimeType
	}
	return "image/png"
}

// ConvertToWebP - PNG/JPEG/WebP 바이너리를 WebP로 변환
func ConvertToWebP(data []byte, quality float32) ([]byte, error) {
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	options, err := encoder.NewLossyEncoderOptions(encoder.PresetDefault, quality)
	if err != nil {
		return nil, fmt.Errorf("failed to create WebP encoder options: %w", err)
	}

	var webpBuffer bytes.Buffer
	if err := webp.Encode(&webpBuffer, img, options); err != nil {
		return nil, fmt.Errorf("failed to encode WebP: %w", err)
	}

	webpData := webpBuffer.Bytes()
	log.Debug().Msgf("✅ %s converted to WebP: %d bytes → %d bytes (quality: %.0f)",
		format, len(data), len(webpData), quality)

	return webpData, nil
}

// MergeImages - 여러 이미지를 Grid 방식으로 병합해 PNG로 반환 (셀 단위 resize 없음)
// 디코드할 수 없는 이미지가 하나라도 있으면 에러
// aspectRatio가 비어 있거나 "1:1"이면 그리드 크기 그대로 반환
func MergeImages(images [][]byte, aspectRatio string) ([]byte, error) {
	if len(images) == 0 {
		return nil, fmt.Errorf("no images to merge")
	}

	// 이미지 디코드 (WebP, PNG, JPEG 자동 감지)
	decodedImages := make([]image.Image, 0, len(images))
	for i, imgData := range images {
		img, _, err := image.Decode(bytes.NewReader(imgData))
		if err != nil {
			return nil, fmt.Errorf("image %d is not a valid image: %w", i+1, err)
		}
		decodedImages = append(decodedImages, img)
	}

	// Grid 방식으로 배치 (2x2, 2x3 등)
	numImages := len(decodedImages)
	cols := int(math.Ceil(math.Sqrt(float64(numImages))))
	rows := int(math.Ceil(float64(numImages) / float64(cols)))

	maxCellWidth := 0
	maxCellHeight := 0
	for _, img := range decodedImages {
		bounds := img.Bounds()
		maxCellWidth = max(maxCellWidth, bounds.Dx())
		maxCellHeight = max(maxCellHeight, bounds.Dy())
	}

	totalWidth := cols * maxCellWidth
	totalHeight := rows * maxCellHeight
	merged := image.NewRGBA(image.Rect(0, 0, totalWidth, totalHeight))

	for idx, img := range decodedImages {
		row := idx / cols
		col := idx % cols

		bounds := img.Bounds()
		// 셀 안에서 중앙 정렬
		xOffset := col*maxCellWidth + (maxCellWidth-bounds.Dx())/2
		yOffset := row*maxCellHeight + (maxCellHeight-bounds.Dy())/2

		draw.Draw(merged,
			image.Rect(xOffset, yOffset, xOffset+bounds.Dx(), yOffset+bounds.Dy()),
			img, bounds.Min, draw.Src)
	}

	log.Debug().Msgf("✅ Merged %d images into %dx%d grid (%dx%d total)", numImages, rows, cols, totalWidth, totalHeight)

	var finalImage image.Image = merged
	if aspectRatio != "" && aspectRatio != "1:1" {
		targetWidth, targetHeight := targetSize(aspectRatio)
		finalImage = ResizeImage(merged, targetWidth, targetHeight)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, finalImage); err != nil {
		return nil, fmt.Errorf("failed to encode merged image: %w", err)
	}

	return buf.Bytes(), nil
}

// targetSize - aspect-ratio에 따른 목표 크기
func targetSize(aspectRatio string) (int, int) {
	switch aspectRatio {
	case "16:9":
		return 1344, 768
	case "9:16":
		return 768, 1344
	case "4:3":
		return 1152, 896
	case "3:4":
		return 896, 1152
	default:
		return 1024, 1024
	}
}

// ResizeImage - 이미지를 지정된 크기로 resize (비율 유지하며 fit, 투명 배경)
func ResizeImage(src image.Image, targetWidth, targetHeight int) image.Image {
	srcBounds := src.Bounds()
	srcWidth := srcBounds.Dx()
	srcHeight := srcBounds.Dy()

	dst := image.NewRGBA(image.Rect(0, 0, targetWidth, targetHeight))
	if srcWidth == 0 || srcHeight == 0 {
		return dst
	}

	scale := math.Min(float64(targetWidth)/float64(srcWidth), float64(targetHeight)/float64(srcHeight))
	newWidth := int(float64(srcWidth) * scale)
	newHeight := int(float64(srcHeight) * scale)

	xOffset := (targetWidth - newWidth) / 2
	yOffset := (targetHeight - newHeight) / 2

	draw.CatmullRom.Scale(dst, image.Rect(xOffset, yOffset, xOffset+newWidth, yOffset+newHeight), src, srcBounds, draw.Src, nil)
	return dst
}
