package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestContentWireShapes(t *testing.T) {
	// 纯字符串形态
	plain := Text("早上好")
	b, err := json.Marshal(plain)
	require.NoError(t, err)
	require.JSONEq(t, `"早上好"`, string(b))

	var back Content
	require.NoError(t, json.Unmarshal(b, &back))
	require.True(t, back.IsPlain())
	require.Equal(t, "早上好", back.Plain)

	// 单个富内容对象形态
	rich := Rich(Part{Type: PartTransfer, Amount: "52.00", Note: "奶茶"})
	b, err = json.Marshal(rich)
	require.NoError(t, err)
	require.JSONEq(t, `{"type":"transfer","amount":"52.00","note":"奶茶"}`, string(b))

	require.NoError(t, json.Unmarshal(b, &back))
	require.False(t, back.IsPlain())
	require.NotNil(t, back.Single())
	require.Equal(t, PartTransfer, back.Single().Type)

	// 混排数组形态
	mixed := Mixed([]Part{
		{Type: PartText, Value: "看这张"},
		{Type: PartImage, URL: "https://files.catbox.moe/abc123.png"},
	})
	b, err = json.Marshal(mixed)
	require.NoError(t, err)

	require.NoError(t, json.Unmarshal(b, &back))
	require.Len(t, back.Parts, 2)
	require.Equal(t, PartText, back.Parts[0].Type)
	require.Equal(t, PartImage, back.Parts[1].Type)
}

func TestMixedNormalizesSingleText(t *testing.T) {
	c := Mixed([]Part{{Type: PartText, Value: "只有文字"}})
	require.True(t, c.IsPlain())
	require.Equal(t, "只有文字", c.Plain)
}

func TestClaimOnlyMovesForward(t *testing.T) {
	c := Rich(Part{Type: PartRedPacket, Amount: "8.88"})
	c.MarkUnclaimed()
	require.Equal(t, ClaimUnclaimed, c.Single().Status)

	require.True(t, c.Claim())
	require.Equal(t, ClaimClaimed, c.Single().Status)

	// 已领取不可重复领取
	require.False(t, c.Claim())

	// 非交易内容不可领取
	text := Text("你好")
	require.False(t, text.Claim())
}
