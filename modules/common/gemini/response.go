package gemini

import (
	"strings"

	"google.golang.org/genai"
)

// Image - 응답에서 꺼낸 이미지 바이너리
type Image struct {
	Data     []byte
	MIMEType string
}

// FirstImage - 응답 후보 중 첫 번째 InlineData 이미지 반환
func FirstImage(resp *genai.GenerateContentResponse) (Image, bool) {
	if resp == nil {
		return Image{}, false
	}
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
				mimeType := part.InlineData.MIMEType
				if mimeType == "" {
					mimeType = "image/png"
				}
				return Image{Data: part.InlineData.Data, MIMEType: mimeType}, true
			}
		}
	}
	return Image{}, false
}

// Text - 응답의 텍스트 파트를 순서대로 이어 붙임 (thought 파트 제외)
func Text(resp *genai.GenerateContentResponse) string {
	if resp == nil {
		return ""
	}
	var b strings.Builder
	for _, candidate := range resp.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part == nil || part.Thought || part.Text == "" {
				continue
			}
			b.WriteString(part.Text)
		}
		// 첫 번째 후보만 사용
		break
	}
	return b.String()
}

// SafetySettings - 인물 편집 요청이 차단되지 않도록 성인 카테고리 기준 완화
func SafetySettings() []*genai.SafetySetting {
	return []*genai.SafetySetting{
		{
			Category:  genai.HarmCategorySexuallyExplicit,
			Threshold: genai.HarmBlockThresholdBlockNone,
		},
	}
}
