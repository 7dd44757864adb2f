package analyzer

// Vocabulary holds the marker word lists the summarizer scans for. The
// defaults cover English and Chinese; callers may substitute their own lists
// (tests pin them for determinism).
type Vocabulary struct {
	// GoalMarkers flag user sentences that state what the session should
	// achieve: imperative verbs and request patterns.
	GoalMarkers []string
	// ActionMarkers flag assistant/tool sentences describing an operation
	// that was actually performed.
	ActionMarkers []string
	// RequestPrefixes are politeness/request lead-ins stripped from goal
	// phrases.
	RequestPrefixes []string

	SuccessMarkers []string
	FailureMarkers []string
	PartialMarkers []string
}

// DefaultVocabulary returns the built-in English + Chinese marker lists.
func DefaultVocabulary() Vocabulary {
	return Vocabulary{
		GoalMarkers: []string{
			"实现", "添加", "创建", "修复", "优化", "重构", "部署", "编写",
			"完成", "解决", "处理", "改进", "设计", "开发",
			"implement", "add", "create", "fix", "optimize", "refactor",
			"deploy", "write", "complete", "solve", "improve", "design",
		},
		ActionMarkers: []string{
			"修改", "删除", "更新", "新建", "编辑", "运行", "测试", "提交",
			"合并", "安装", "配置", "添加", "移除", "调整",
			"modify", "delete", "update", "create", "edit", "run", "test",
			"commit", "merge", "install", "configure", "add", "remove",
		},
		RequestPrefixes: []string{
			"请", "帮我", "我想要", "需要",
			"please", "let me", "i want to", "can you", "could you",
		},
		SuccessMarkers: []string{
			"成功", "完成", "通过", "正常", "已解决", "已实现", "✅", "✓",
			"succeeded", "completed", "passed", "done", "resolved",
		},
		FailureMarkers: []string{
			"失败", "错误", "异常", "报错", "崩溃", "❌", "✗",
			"failed", "error", "exception", "crash",
		},
		PartialMarkers: []string{
			"部分", "待处理", "进行中", "未完成",
			"partial", "pending", "in progress", "todo", "remaining",
		},
	}
}
