// Package model 定义各命名文档的实体模型
// 本文件定义消息正文 Content 及其富内容片段 Part
package model

import (
	"encoding/json"
	"errors"
)

// 富内容片段类型
const (
	PartText        = "text"
	PartImage       = "image"
	PartPseudoImage = "pseudo_image" // 无法生成真实图片链接时的降级形态，仅携带描述文字
	PartVoice       = "voice"
	PartTransfer    = "transfer"
	PartRedPacket   = "red_packet"
	PartLocation    = "location"
	PartCallEnd     = "call_end"
)

// 转账/红包领取状态，只允许 unclaimed -> claimed 单向迁移
const (
	ClaimUnclaimed = "unclaimed"
	ClaimClaimed   = "claimed"
)

// Part 富内容中的一个片段
// 不同 type 使用不同字段子集，序列化时省略空字段以保持线上格式紧凑
type Part struct {
	Type     string `json:"type"`
	Value    string `json:"value,omitempty"`    // text 片段的文字
	URL      string `json:"url,omitempty"`      // image 的资源地址
	Text     string `json:"text,omitempty"`     // pseudo_image/voice/location 的文字
	Duration string `json:"duration,omitempty"` // voice 的时长 / call_end 的通话时长
	Amount   string `json:"amount,omitempty"`   // transfer/red_packet 的金额
	Note     string `json:"note,omitempty"`     // transfer/red_packet 的附言
	Status   string `json:"status,omitempty"`   // transfer/red_packet 的领取状态
}

// Content 消息/动态/帖子正文
// 线上格式有三种形态，必须原样保持以兼容存量文档：
//   - 纯字符串
//   - 单个富内容对象
//   - 文本片段与富内容混排的数组
// Parts 为 nil 时表示纯文本形态，取 Plain 字段
type Content struct {
	Plain string
	Parts []Part
}

// Text 构造纯文本内容
func Text(s string) Content {
	return Content{Plain: s}
}

// Rich 构造单个富内容
func Rich(p Part) Content {
	return Content{Parts: []Part{p}}
}

// Mixed 构造混排内容
// 单个 text 片段会被归一化为纯文本形态
func Mixed(parts []Part) Content {
	if len(parts) == 0 {
		return Content{}
	}
	if len(parts) == 1 && parts[0].Type == PartText {
		return Content{Plain: parts[0].Value}
	}
	return Content{Parts: parts}
}

// IsPlain 是否为纯文本形态
func (c Content) IsPlain() bool {
	return c.Parts == nil
}

// Single 返回单一富内容片段的指针（可原地修改），混排或纯文本时返回 nil
func (c *Content) Single() *Part {
	if len(c.Parts) == 1 && c.Parts[0].Type != PartText {
		return &c.Parts[0]
	}
	return nil
}

// IsTransaction 是否为转账或红包
func (c Content) IsTransaction() bool {
	p := c.Single()
	return p != nil && (p.Type == PartTransfer || p.Type == PartRedPacket)
}

// MarkUnclaimed 为转账/红包打上未领取状态
func (c *Content) MarkUnclaimed() {
	if p := c.Single(); p != nil && (p.Type == PartTransfer || p.Type == PartRedPacket) {
		p.Status = ClaimUnclaimed
	}
}

// Claim 将转账/红包置为已领取
// 返回是否发生了 unclaimed -> claimed 迁移
func (c *Content) Claim() bool {
	p := c.Single()
	if p == nil || (p.Type != PartTransfer && p.Type != PartRedPacket) {
		return false
	}
	if p.Status != ClaimUnclaimed {
		return false
	}
	p.Status = ClaimClaimed
	return true
}

// Preview 摘要用文本：纯文本直接返回，富内容返回 JSON 编码
func (c Content) Preview() string {
	if c.IsPlain() {
		return c.Plain
	}
	b, err := json.Marshal(c)
	if err != nil {
		return ""
	}
	return string(b)
}

// MarshalJSON 按三种线上形态序列化
func (c Content) MarshalJSON() ([]byte, error) {
	if c.Parts == nil {
		return json.Marshal(c.Plain)
	}
	if len(c.Parts) == 1 && c.Parts[0].Type != PartText {
		return json.Marshal(c.Parts[0])
	}
	return json.Marshal(c.Parts)
}

// UnmarshalJSON 依次尝试字符串、单对象、数组三种形态
func (c *Content) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		*c = Content{Plain: s}
		return nil
	}
	var p Part
	if err := json.Unmarshal(data, &p); err == nil && p.Type != "" {
		*c = Content{Parts: []Part{p}}
		return nil
	}
	var parts []Part
	if err := json.Unmarshal(data, &parts); err == nil {
		*c = Content{Parts: parts}
		return nil
	}
	return errors.New("content: unrecognized wire shape")
}
