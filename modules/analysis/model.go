package analysis

// AnalysisType - 분석 종류
type AnalysisType string

const (
	Complete           AnalysisType = "complete"
	TextExtraction     AnalysisType = "text_extraction"
	PeopleDemographics AnalysisType = "people_demographics"
	TechnicalQuality   AnalysisType = "technical_quality"
)

// AnalysisTypes - 화면 표시 순서
var AnalysisTypes = []AnalysisType{Complete, TextExtraction, PeopleDemographics, TechnicalQuality}

// NoTextMarker - 텍스트가 없을 때 모델이 답하도록 요청하는 문구
const NoTextMarker = "NO TEXT DETECTED"

// AnalyzeRequest - POST /api/analyze 요청
type AnalyzeRequest struct {
	SessionID    string `json:"sessionId"`
	Image        string `json:"image"`
	AnalysisType string `json:"analysisType"`
}

// AnalyzeResponse - POST /api/analyze 응답
type AnalyzeResponse struct {
	Success      bool   `json:"success"`
	AnalysisType string `json:"analysisType"`
	Report       string `json:"report,omitempty"`
	TextDetected *bool  `json:"textDetected,omitempty"` // text_extraction 전용
	ErrorMessage string `json:"errorMessage,omitempty"`
	ErrorCode    string `json:"errorCode,omitempty"`
}

// MaxBatchImages - 배치 분석 한 번에 받는 이미지 수
const MaxBatchImages = 10

// BatchReportFileName - 배치 리포트 다운로드 파일명
const BatchReportFileName = "batch_analysis_report.json"

// BatchImage - 배치 분석 입력 이미지 하나
type BatchImage struct {
	Filename string `json:"filename"`
	Image    string `json:"image"` // base64 또는 data URL
}

// BatchAnalyzeRequest - POST /api/analyze/batch 요청
type BatchAnalyzeRequest struct {
	SessionID    string       `json:"sessionId"`
	AnalysisType string       `json:"analysisType"`
	Images       []BatchImage `json:"images"`
}

// BatchItemResult - 이미지별 결과 (실패한 이미지는 error만 채움)
type BatchItemResult struct {
	Filename string `json:"filename"`
	Analysis string `json:"analysis,omitempty"`
	Error    string `json:"error,omitempty"`
}

// BatchReport - 다운로드 가능한 배치 리포트
type BatchReport struct {
	AnalysisType string            `json:"analysis_type"`
	Timestamp    string            `json:"timestamp"`
	Results      []BatchItemResult `json:"results"`
}

// Failed - 실패한 이미지 수
func (r BatchReport) Failed() int {
	n := 0
	for _, item := range r.Results {
		if item.Error != "" {
			n++
		}
	}
	return n
}

// BatchAnalyzeResponse - POST /api/analyze/batch 응답
type BatchAnalyzeResponse struct {
	Success  bool `json:"success"`
	Analyzed int  `json:"analyzed"`
	Failed   int  `json:"failed"`
	BatchReport
}
