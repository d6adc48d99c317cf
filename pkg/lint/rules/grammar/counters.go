package grammar

// CounterMismatch says that Counter must not be used with any of
// InvalidNouns; Suggested is the counter to use instead.
type CounterMismatch struct {
	Counter      string   `yaml:"counter" json:"counter"`
	InvalidNouns []string `yaml:"invalid_nouns" json:"invalid_nouns"`
	Suggested    string   `yaml:"suggested" json:"suggested"`
}

// DefaultCounterMismatches is the built-in counter dictionary. Entries are
// checked in order and the first match wins.
var DefaultCounterMismatches = []CounterMismatch{
	{Counter: "人", InvalidNouns: []string{"犬", "猫", "魚", "虫", "猿", "金魚", "子犬", "子猫"}, Suggested: "匹"},
	{Counter: "人", InvalidNouns: []string{"馬", "牛", "象", "豚", "鯨"}, Suggested: "頭"},
	{Counter: "人", InvalidNouns: []string{"鳥", "鶏", "鳩", "雀"}, Suggested: "羽"},
	{Counter: "匹", InvalidNouns: []string{"人", "子供", "学生", "客"}, Suggested: "人"},
	{Counter: "匹", InvalidNouns: []string{"鳥", "鶏", "鳩"}, Suggested: "羽"},
	{Counter: "個", InvalidNouns: []string{"車", "自動車", "自転車", "パソコン"}, Suggested: "台"},
	{Counter: "個", InvalidNouns: []string{"本", "雑誌", "ノート"}, Suggested: "冊"},
	{Counter: "個", InvalidNouns: []string{"紙", "写真", "切手", "皿"}, Suggested: "枚"},
	{Counter: "本", InvalidNouns: []string{"紙", "写真", "シャツ", "切符"}, Suggested: "枚"},
	{Counter: "枚", InvalidNouns: []string{"鉛筆", "傘", "ペン", "瓶"}, Suggested: "本"},
	{Counter: "台", InvalidNouns: []string{"鉛筆", "傘"}, Suggested: "本"},
	{Counter: "冊", InvalidNouns: []string{"紙", "写真"}, Suggested: "枚"},
}
