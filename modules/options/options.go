package options

import "sort"

// Sentinel selections meaning "no modifier".
const (
	StyleNone    = "None"
	RatioDefault = "Default"
)

// StylePresets - 화풍 이름 → 프롬프트 조각
var StylePresets = map[string]string{
	"Photorealistic":  "ultra-realistic, high-definition, professional photography, sharp details",
	"Digital Art":     "digital art, vibrant colors, detailed illustration, artstation quality",
	"Oil Painting":    "oil painting, classical fine art, rich textures, visible brushstrokes",
	"Watercolor":      "watercolor painting, soft washes, delicate gradients, paper texture",
	"Anime":           "anime style, cel shading, expressive characters, vibrant palette",
	"Cinematic":       "cinematic film still, dramatic lighting, shallow depth of field, color graded",
	"Vintage Film":    "vintage film photography, grain, faded colors, analog look",
	"3D Render":       "3D render, octane render, global illumination, physically based materials",
	"Pencil Sketch":   "detailed pencil sketch, graphite shading, hand-drawn linework",
	"Pop Art":         "pop art, bold outlines, halftone dots, saturated flat colors",
	"Minimalist":      "minimalist composition, clean lines, negative space, muted palette",
	"Fantasy":         "epic fantasy art, magical atmosphere, intricate details, painterly",
	"Corporate Clean": "clean corporate photography, bright even lighting, modern professional look",
}

// AspectRatios - 비율 이름 → 프롬프트 조각
var AspectRatios = map[string]string{
	"Square (1:1)":      "square composition, 1:1 aspect ratio",
	"Portrait (3:4)":    "portrait orientation, 3:4 aspect ratio, vertical framing",
	"Landscape (4:3)":   "landscape orientation, 4:3 aspect ratio, horizontal framing",
	"Widescreen (16:9)": "widescreen cinematic framing, 16:9 aspect ratio",
	"Story (9:16)":      "tall vertical framing for stories, 9:16 aspect ratio",
}

// AspectRatioValues - 비율 이름 → Gemini ImageConfig 값
var AspectRatioValues = map[string]string{
	"Square (1:1)":      "1:1",
	"Portrait (3:4)":    "3:4",
	"Landscape (4:3)":   "4:3",
	"Widescreen (16:9)": "16:9",
	"Story (9:16)":      "9:16",
}

var ClothingOptions = map[string]string{
	"Business Formal":    "professional business suit, formal corporate attire, executive styling",
	"Casual Wear":        "comfortable jeans and t-shirt, relaxed everyday clothing",
	"Elegant Evening":    "sophisticated evening dress, formal party attire, glamorous",
	"Traditional Indian": "beautiful traditional Indian clothing, saree, kurta, cultural dress",
	"Wedding Attire":     "elegant wedding dress, formal wedding suit, bridal styling",
	"Sportswear":         "athletic wear, gym clothes, sports uniform, active lifestyle",
	"Winter Wear":        "warm winter coat, cozy sweater, seasonal layered clothing",
	"Beach Wear":         "summer beach outfit, light breezy clothing, vacation style",
	"Vintage Style":      "retro vintage clothing from past decades, classic fashion",
	"Designer Fashion":   "high-end designer clothing, luxury fashion, couture styling",
}

var PoseOptions = map[string]string{
	"Confident Standing":    "confident upright posture, hands on hips, strong authoritative stance",
	"Relaxed Casual":        "relaxed natural pose, comfortable casual body language",
	"Professional Portrait": "professional headshot pose, business appropriate, executive presence",
	"Dynamic Action":        "energetic dynamic pose, movement and life, active positioning",
	"Sitting Elegant":       "graceful sitting position, elegant refined posture",
	"Walking Forward":       "confident walking stride, forward motion, purposeful movement",
	"Arms Crossed":          "confident pose with arms crossed, assertive professional stance",
	"Waving Hello":          "friendly waving gesture, welcoming approachable pose",
	"Thinking Pose":         "thoughtful pose, hand on chin, contemplative positioning",
	"Victory Pose":          "celebratory victory stance, arms raised, triumphant gesture",
}

var FacialExpressions = map[string]string{
	"Natural Smile":  "genuine natural smile, warm and friendly expression",
	"Confident Look": "confident serious expression, professional authoritative demeanor",
	"Joyful Laugh":   "happy laughing expression, pure joy and happiness",
	"Thoughtful":     "contemplative thoughtful expression, intelligent focused look",
	"Surprised":      "surprised expression, wide eyes, astonished look",
	"Peaceful":       "calm peaceful expression, serene tranquil look",
}

var BackgroundOptions = map[string]string{
	"Smart Remove":        "completely remove background, create transparent PNG",
	"Studio Professional": "professional studio lighting, clean neutral backdrop",
	"Modern Office":       "contemporary office environment, professional workspace",
	"Outdoor Natural":     "beautiful outdoor natural setting, parks or landscapes",
	"Urban City":          "modern city environment, urban professional setting",
	"Home Lifestyle":      "cozy home interior, comfortable living space",
	"Product Studio":      "e-commerce white background, clean product photography",
	"Fantasy World":       "magical fantasy environment, creative artistic backdrop",
	"Seasonal Theme":      "seasonal environment, holiday or weather-themed backdrop",
}

var FaceEnhancements = map[string]string{
	"Skin Perfection":   "smooth flawless skin, remove blemishes naturally, even skin tone",
	"Eye Enhancement":   "brighter sparkling eyes, natural eye enhancement",
	"Smile Improvement": "perfect natural smile, teeth whitening, confident expression",
	"Hair Styling":      "perfect hairstyle, natural hair enhancement, styled look",
	"Overall Beauty":    "natural beauty enhancement, subtle professional improvement",
	"Age Adjustment":    "youthful appearance, age-appropriate enhancement",
}

var BodyModifications = map[string]string{
	"Fitness Transform":   "athletic toned body, fit healthy appearance, natural muscle definition",
	"Posture Improvement": "confident straight posture, professional body language",
	"Height Enhancement":  "taller proportional appearance, elegant stature",
	"Body Proportions":    "balanced natural body proportions, harmonious physique",
	"Clothing Fit":        "perfectly fitted clothing, tailored professional appearance",
}

// Tables - 이름으로 조회 가능한 전체 테이블 목록
var Tables = map[string]map[string]string{
	"styles":            StylePresets,
	"aspectRatios":      AspectRatios,
	"clothing":          ClothingOptions,
	"poses":             PoseOptions,
	"facialExpressions": FacialExpressions,
	"backgrounds":       BackgroundOptions,
	"faceEnhancements":  FaceEnhancements,
	"bodyModifications": BodyModifications,
}

// Names - 테이블의 표시 이름을 정렬해서 반환
func Names(table map[string]string) []string {
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
