// Package parser 实现指令协议解析：富内容分词、指令行解析和时间戳合成
// 本文件为富内容分词器：识别自由文本中内嵌的图片/语音/转账/红包/定位标记
package parser

import (
	"regexp"
	"strings"

	"phone_sim_server/internal/model"
)

// 各标记的文法，按优先级排列，同一位置先匹配者生效
var tokenPatterns = []struct {
	typ string
	re  *regexp.Regexp
}{
	{model.PartImage, regexp.MustCompile(`(?s)^\[Image:(.+?)\]$`)},
	{model.PartVoice, regexp.MustCompile(`(?s)^\[Voice:([^|]+)\|(.+?)\]$`)},
	{model.PartTransfer, regexp.MustCompile(`(?s)^\[Transfer:([^|]+)\|(.*?)\]$`)},
	{model.PartRedPacket, regexp.MustCompile(`(?s)^\[RedPacket:([^|]+)\|(.*?)\]$`)},
	{model.PartLocation, regexp.MustCompile(`(?s)^\[Location:(.+?)\]$`)},
}

// combinedTokenRe 扫描用的合并文法（非锚定），命中后再按优先级单独归类
var combinedTokenRe = regexp.MustCompile(`(?s)` +
	`\[Image:.+?\]` +
	`|\[Voice:[^|]+\|.+?\]` +
	`|\[Transfer:[^|]+\|.*?\]` +
	`|\[RedPacket:[^|]+\|.*?\]` +
	`|\[Location:.+?\]`)

var (
	// catbox 短文件名：6 位字母数字 + 图片扩展名，出现在任意位置即改写为托管地址
	catboxRe = regexp.MustCompile(`(?i)([a-z0-9]{6}\.(?:jpeg|jpg|png|gif|webp))`)
	// 裸文件名形态
	bareImageFileRe = regexp.MustCompile(`(?i)^[a-zA-Z0-9_-]+\.(?:jpeg|jpg|png|gif|webp)$`)
)

const catboxBase = "https://files.catbox.moe/"

// ParseContent 对一段文本做富内容分词
// 返回三种形态之一：原文（无标记）、单个富内容（整段即一个标记）、混排列表
func ParseContent(s string) model.Content {
	if strings.TrimSpace(s) == "" {
		return model.Text(s)
	}

	locs := combinedTokenRe.FindAllStringIndex(s, -1)
	if len(locs) == 0 {
		return model.Text(s)
	}

	var parts []model.Part
	last := 0
	for _, loc := range locs {
		if loc[0] > last {
			parts = append(parts, model.Part{Type: model.PartText, Value: s[last:loc[0]]})
		}
		parts = append(parts, classifyToken(s[loc[0]:loc[1]]))
		last = loc[1]
	}
	if last < len(s) {
		parts = append(parts, model.Part{Type: model.PartText, Value: s[last:]})
	}

	return model.Mixed(parts)
}

// classifyToken 将一个命中的标记按优先级归类为富内容片段
func classifyToken(matched string) model.Part {
	for _, pat := range tokenPatterns {
		groups := pat.re.FindStringSubmatch(matched)
		if groups == nil {
			continue
		}
		switch pat.typ {
		case model.PartImage:
			return resolveImage(strings.TrimSpace(groups[1]))
		case model.PartVoice:
			return model.Part{
				Type:     model.PartVoice,
				Duration: strings.TrimSpace(groups[1]),
				Text:     strings.TrimSpace(groups[2]),
			}
		case model.PartTransfer, model.PartRedPacket:
			return model.Part{
				Type:   pat.typ,
				Amount: strings.TrimSpace(groups[1]),
				Note:   strings.TrimSpace(groups[2]),
			}
		case model.PartLocation:
			return model.Part{Type: model.PartLocation, Text: strings.TrimSpace(groups[1])}
		}
	}
	// 理论上不可达：合并文法与单独文法同源
	return model.Part{Type: model.PartText, Value: matched}
}

// resolveImage 图片标记解析规则：
//  1. 负载中含 catbox 短文件名 -> 改写为托管地址
//  2. 本身是 URL 或裸文件名 -> 原样/补前缀使用
//  3. 其余情况静默降级为 pseudo_image，仅保留描述文字（设计内的回退，不是错误）
func resolveImage(payload string) model.Part {
	if m := catboxRe.FindStringSubmatch(payload); m != nil {
		return model.Part{Type: model.PartImage, URL: catboxBase + m[1]}
	}
	if strings.HasPrefix(payload, "http") {
		return model.Part{Type: model.PartImage, URL: payload}
	}
	if bareImageFileRe.MatchString(payload) {
		return model.Part{Type: model.PartImage, URL: catboxBase + payload}
	}
	return model.Part{Type: model.PartPseudoImage, Text: payload}
}
