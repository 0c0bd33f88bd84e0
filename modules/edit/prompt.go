package edit

import (
	"fmt"
	"strings"
)

// DefaultCustomPrompt - custom_edit 에 프롬프트가 없을 때
const DefaultCustomPrompt = "Enhance this image professionally"

func str(opts map[string]interface{}, key string) string {
	if v, ok := opts[key].(string); ok {
		return v
	}
	return ""
}

// BuildPrompt - 편집 종류별 프롬프트 (opts는 ResolveOptions 결과)
func BuildPrompt(editType EditType, opts map[string]interface{}) string {
	switch editType {
	case OutfitChange:
		return strings.TrimSpace(fmt.Sprintf("Change the person's clothing to %s, keep same person, face, pose and background. %s",
			str(opts, "clothing"), str(opts, "additional")))

	case PoseChange:
		return fmt.Sprintf("Modify the person's pose to %s with %s facial expression. Keep same person, clothing, and background.",
			str(opts, "pose"), str(opts, "expression"))

	case FaceEnhancement:
		return fmt.Sprintf("Enhance the person's face: %s. Keep everything else exactly the same. Make it look natural and professional.",
			str(opts, "enhancement")) + intensityHint(opts)

	case BodyModification:
		return fmt.Sprintf("Modify the person's body: %s. Keep face, clothing style, and background the same. Make it look natural and realistic.",
			str(opts, "modification")) + intensityHint(opts)

	case BackgroundChange:
		switch str(opts, "action") {
		case BackgroundRemove:
			return "Remove the background completely. Keep the person(s) exactly the same with clean, precise edges."
		case BackgroundEnhance:
			return "Enhance the existing background: improve lighting, clarity and color. Keep the person(s) exactly the same."
		default:
			return fmt.Sprintf("Change the background to %s. Keep the person(s) exactly the same with proper lighting and shadows.",
				str(opts, "background"))
		}

	case ObjectControl:
		switch str(opts, "action") {
		case ObjectRemove:
			return fmt.Sprintf("Remove %s from the image. Fill the space naturally with appropriate background.", str(opts, "object"))
		case ObjectAdd:
			return fmt.Sprintf("Add %s to the image in a natural way that fits the scene and lighting.", str(opts, "object"))
		default:
			return fmt.Sprintf("Replace %s with %s naturally in the scene.", str(opts, "old_object"), str(opts, "new_object"))
		}

	case CompleteMakeover:
		return fmt.Sprintf("Complete transformation: change clothing to %s, modify pose to %s, enhance face with %s, expression to %s. Keep same person and background.",
			str(opts, "clothing"), str(opts, "pose"), str(opts, "face_enhancement"), str(opts, "expression"))

	case StyleTransfer:
		return fmt.Sprintf("Transform this image to %s style while maintaining all subjects and composition.", str(opts, "style"))

	case FaceSwap:
		return BuildFaceSwapPrompt(opts)

	default:
		if p := str(opts, "custom_prompt"); p != "" {
			return p
		}
		return DefaultCustomPrompt
	}
}

func intensityHint(opts map[string]interface{}) string {
	intensity, ok := opts["intensity"].(int)
	if !ok {
		return ""
	}
	hint := fmt.Sprintf(" Intensity: %d/10.", intensity)
	if natural, _ := opts["natural"].(bool); natural {
		hint += " Keep a natural appearance."
	}
	return hint
}

// BuildFaceSwapPrompt - 첫 번째 이미지의 얼굴을 두 번째 이미지의 인물에 합성
func BuildFaceSwapPrompt(opts map[string]interface{}) string {
	preserveHair, _ := opts["preserve_hair"].(bool)
	skinMatch := "automatic"
	if match, ok := opts["skin_match"].(bool); ok && !match {
		skinMatch = "off"
	}

	return fmt.Sprintf(`Perform a precise face swap operation:

TASK: Take the face from the first image and naturally place it on the person in the second image

REQUIREMENTS:
- Keep target person's exact body, clothing, pose, and background
- Swap only the facial features (eyes, nose, mouth, face shape)
- Match skin tone and lighting naturally
- Preserve target's hairstyle unless specified
- Ensure proper face size and angle alignment
- Create seamless, realistic integration
- Maintain image quality and resolution

QUALITY SETTINGS:
- Blend mode: %s
- Skin tone matching: %s
- Hair preservation: %t
- Expression: %s

Make it look completely natural and professional.`,
		str(opts, "blend_quality"), skinMatch, preserveHair, str(opts, "expression"))
}
