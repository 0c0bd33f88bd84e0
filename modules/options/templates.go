package options

// PromptTemplates - 카테고리별 빠른 프롬프트 템플릿
var PromptTemplates = map[string][]string{
	"Professional Business": {
		"Executive portrait in navy suit, confident expression, office background",
		"Professional businesswoman in blazer, warm smile, corporate environment",
		"Team headshot, business casual, modern office setting",
		"LinkedIn profile photo, professional attire, neutral background",
	},
	"Creative & Artistic": {
		"Artist in creative studio, inspiring workspace, natural lighting",
		"Designer at work, modern creative environment, focused expression",
		"Creative professional, artistic background, thoughtful pose",
		"Innovation leader, tech startup environment, confident stance",
	},
	"Social Media Ready": {
		"Instagram influencer style, trendy outfit, engaging smile",
		"Social media content creator, colorful background, dynamic pose",
		"Lifestyle blogger aesthetic, casual chic, authentic moment",
		"Content creator workspace, modern setup, professional casual",
	},
	"Character & Fantasy": {
		"Superhero character, dynamic action pose, heroic background",
		"Fantasy warrior, medieval armor, epic landscape",
		"Sci-fi character, futuristic outfit, space environment",
		"Anime character, vibrant colors, stylized background",
	},
	"Cultural & Traditional": {
		"Traditional Indian bride, ornate lehenga, wedding decorations",
		"Professional in cultural attire, modern office, proud expression",
		"Festival celebration, traditional clothing, joyful atmosphere",
		"Cultural leader, traditional dress, dignified pose",
	},
}
