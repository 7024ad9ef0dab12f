package parser

import (
	"testing"

	"github.com/stretchr/testify/require"

	"phone_sim_server/internal/model"
)

func TestParseContentPlainText(t *testing.T) {
	c := ParseContent("晚上一起吃饭吗")
	require.True(t, c.IsPlain())
	require.Equal(t, "晚上一起吃饭吗", c.Plain)
}

func TestParseContentKeepsCommasAndBrackets(t *testing.T) {
	c := ParseContent("好的, 就这样 [笑]")
	require.True(t, c.IsPlain())
	require.Equal(t, "好的, 就这样 [笑]", c.Plain)
}

func TestParseContentImageCatboxRewrite(t *testing.T) {
	c := ParseContent("[Image:abc123.png]")
	p := c.Single()
	require.NotNil(t, p)
	require.Equal(t, model.PartImage, p.Type)
	require.Equal(t, "https://files.catbox.moe/abc123.png", p.URL)
}

func TestParseContentImageFullURL(t *testing.T) {
	c := ParseContent("[Image:https://example.com/pic.jpg]")
	p := c.Single()
	require.NotNil(t, p)
	require.Equal(t, "https://example.com/pic.jpg", p.URL)
}

func TestParseContentImageFallsBackToPseudo(t *testing.T) {
	c := ParseContent("[Image:一只橘猫趴在窗台上]")
	p := c.Single()
	require.NotNil(t, p)
	require.Equal(t, model.PartPseudoImage, p.Type)
	require.Equal(t, "一只橘猫趴在窗台上", p.Text)
	require.Empty(t, p.URL)
}

func TestParseContentVoice(t *testing.T) {
	c := ParseContent("[Voice:15s|到家了吗]")
	p := c.Single()
	require.NotNil(t, p)
	require.Equal(t, model.PartVoice, p.Type)
	require.Equal(t, "15s", p.Duration)
	require.Equal(t, "到家了吗", p.Text)
}

func TestParseContentTransferAndRedPacket(t *testing.T) {
	c := ParseContent("[Transfer:52.00|请你喝奶茶]")
	p := c.Single()
	require.NotNil(t, p)
	require.Equal(t, model.PartTransfer, p.Type)
	require.Equal(t, "52.00", p.Amount)
	require.Equal(t, "请你喝奶茶", p.Note)
	require.True(t, c.IsTransaction())

	c = ParseContent("[RedPacket:8.88|恭喜发财]")
	p = c.Single()
	require.NotNil(t, p)
	require.Equal(t, model.PartRedPacket, p.Type)
}

func TestParseContentMixed(t *testing.T) {
	c := ParseContent("你看这个 [Image:def456.jpg] 好看吗")
	require.Len(t, c.Parts, 3)
	require.Equal(t, model.PartText, c.Parts[0].Type)
	require.Equal(t, "你看这个 ", c.Parts[0].Value)
	require.Equal(t, model.PartImage, c.Parts[1].Type)
	require.Equal(t, model.PartText, c.Parts[2].Type)
	require.Equal(t, " 好看吗", c.Parts[2].Value)
}

func TestParseContentLocation(t *testing.T) {
	c := ParseContent("[Location:市中心咖啡馆]")
	p := c.Single()
	require.NotNil(t, p)
	require.Equal(t, model.PartLocation, p.Type)
	require.Equal(t, "市中心咖啡馆", p.Text)
}
