package usecase

import (
	"strings"
	"testing"

	replydomain "mailreply-backend/internal/reply/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildPromptToneInstructions(t *testing.T) {
	cases := map[replydomain.Tone][]string{
		replydomain.ToneFormal:  {"~습니다, ~하겠습니다", "격식 있는 인사말"},
		replydomain.ToneCasual:  {"~해요, ~할게요"},
		replydomain.ToneDecline: {"감사의 표현으로 시작하세요", "거절하는 이유를 간단하고 명확하게"},
		replydomain.ToneThanks:  {"무엇에 감사하는지 구체적으로 언급하세요"},
	}

	for tone, markers := range cases {
		t.Run(string(tone), func(t *testing.T) {
			prompt, ok := BuildPrompt("원본 메일", tone)
			require.True(t, ok)
			for _, marker := range markers {
				assert.Contains(t, prompt.System, marker)
			}
			assert.True(t, strings.HasPrefix(prompt.System, baseSystemPrompt))
			assert.True(t, strings.HasSuffix(prompt.System, replyRules))
		})
	}
}

func TestBuildPromptKeepsEmailVerbatim(t *testing.T) {
	email := "  첫 줄\n\n둘째 줄  "
	prompt, ok := BuildPrompt(email, replydomain.ToneCasual)
	require.True(t, ok)
	assert.Equal(t, userPromptPrefix+email, prompt.User)
}

func TestBuildPromptUnknownTone(t *testing.T) {
	prompt, ok := BuildPrompt("원본 메일", "sarcastic")
	assert.False(t, ok)
	assert.Empty(t, prompt.System)
}
