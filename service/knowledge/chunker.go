package knowledge

// ChunkText 将文本按固定宽度切分为有序分块
// 分块按原顺序拼接后与原文完全一致，单块长度不超过 maxChunkSize 个字符
func ChunkText(text string, maxChunkSize int) []string {
	if maxChunkSize <= 0 || text == "" {
		return nil
	}

	runes := []rune(text)
	chunks := make([]string, 0, (len(runes)+maxChunkSize-1)/maxChunkSize)
	for i := 0; i < len(runes); i += maxChunkSize {
		end := i + maxChunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[i:end]))
	}
	return chunks
}
