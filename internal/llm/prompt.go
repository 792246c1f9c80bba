package llm

// Supported target languages for translation.
const (
	LanguageZhTW    = "zh_TW"
	LanguageEnglish = "en"
)

func SupportedLanguage(language string) bool {
	return language == LanguageZhTW || language == LanguageEnglish
}

// BuildMenuPrompt returns the extraction prompt for the given target
// language. The model must answer with JSON only.
func BuildMenuPrompt(language string) string {
	if language == LanguageZhTW {
		return `
你是一個菜單資料擷取引擎。請分析這張菜單圖片，並以 JSON 回傳菜單資料。

規則：
- 輸出必須是合法 JSON。
- 輸出必須以 { 開頭、以 } 結尾。
- 只能輸出 JSON，不要解釋、不要 markdown、不要註解。

JSON 格式：
{
  "items": [
    {
      "id": "unique_id",
      "name": "原文菜名",
      "translated_name": "繁體中文翻譯及簡單口感描述",
      "variants": [
        { "spec": "規格（例如：大杯、定食、單點）", "price": 500, "tax_included": true }
      ]
    }
  ],
  "confidence": 0.95
}

要求：
1. 每個菜單項目必須包含 name 與 translated_name。
2. 同一道菜的不同規格（大小、單點/定食）放進 variants。
3. 回傳所有找到的菜單項目。
4. 若完全無法辨識，回傳 {"items": []}。
`
	}

	return `
You are a menu data extraction engine. Analyze this menu photo and
return the menu data as JSON.

Rules:
- Output MUST be valid JSON.
- Output MUST start with { and end with }.
- Output ONLY JSON. No explanations, no markdown, no comments.

JSON schema:
{
  "items": [
    {
      "id": "unique_id",
      "name": "Original name",
      "translated_name": "English translation with a short description",
      "variants": [
        { "spec": "size or serving style", "price": 500, "tax_included": true }
      ]
    }
  ],
  "confidence": 0.95
}

Requirements:
1. Every item must include name and translated_name.
2. Put size/serving options of the same dish into variants.
3. Return all menu items found.
4. If nothing is recognizable, return {"items": []}.
`
}
