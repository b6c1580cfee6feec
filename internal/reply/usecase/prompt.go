package usecase

import (
	replydomain "mailreply-backend/internal/reply/domain"
	"mailreply-backend/pkg/ai"
)

const baseSystemPrompt = `당신은 한국어 비즈니스 이메일 작성 전문가입니다.
받은 이메일을 읽고 그에 맞는 답장을 작성합니다.`

const replyRules = `답장 작성 규칙:
- 원본 이메일의 요청과 맥락을 정확히 파악해 답하세요
- 한국 비즈니스 이메일의 문화와 예절을 지키세요
- 간결하게 쓰되 필요한 내용은 빠뜨리지 마세요
- 이메일 서명이나 발신자 정보는 넣지 말고 본문만 작성하세요
- 답장 본문 외의 설명이나 메타 정보는 쓰지 마세요`

const userPromptPrefix = "다음 이메일에 대한 답장을 작성해 주세요:\n\n"

var toneInstructions = map[replydomain.Tone]string{
	replydomain.ToneFormal: `격식을 갖춘 매우 정중한 답장을 작성하세요.
- ~습니다, ~하겠습니다 형태의 존댓말을 사용하세요
- 격식 있는 인사말로 시작하고 격식 있는 맺음말로 끝내세요
- 전문적이고 공손한 어조를 유지하세요`,

	replydomain.ToneCasual: `친근하고 편안하지만 예의는 지키는 답장을 작성하세요.
- ~해요, ~할게요 형태의 부드러운 존댓말을 사용하세요
- 친근하면서도 예의 바른 표현을 고르세요
- 자연스럽고 편안한 느낌을 주세요`,

	replydomain.ToneDecline: `정중하지만 분명하게 거절하는 답장을 작성하세요.
- 감사의 표현으로 시작하세요
- 거절하는 이유를 간단하고 명확하게 밝히세요
- 가능하면 대안을 제시하거나 다음 기회를 열어 두세요
- 공손한 어조를 유지하세요`,

	replydomain.ToneThanks: `진심 어린 감사를 전하는 답장을 작성하세요.
- 무엇에 감사하는지 구체적으로 언급하세요
- 따뜻하고 진정성 있는 어조를 사용하세요
- 감사의 마음이 잘 전해지도록 쓰세요
- 앞으로의 관계에 대한 긍정적인 메시지를 담으세요`,
}

// BuildPrompt composes the system and user turns for a reply in the given tone.
// ok is false for unrecognized tones.
func BuildPrompt(originalEmail string, tone replydomain.Tone) (prompt ai.Prompt, ok bool) {
	instructions, ok := toneInstructions[tone]
	if !ok {
		return ai.Prompt{}, false
	}

	return ai.Prompt{
		System: baseSystemPrompt + "\n" + instructions + "\n\n" + replyRules,
		User:   userPromptPrefix + originalEmail,
	}, true
}
