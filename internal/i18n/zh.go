package i18n

var messagesZH = map[string]string{
	// ========== 词法分析 ==========
	ErrUnexpectedChar:      "意外的字符 '%c'",
	ErrUnterminatedComment: "未闭合的块注释",
	ErrUnterminatedString:  "未闭合的字符串",
	ErrInvalidEscape:       "无效的转义序列: \\%s",
	ErrInvalidHexNumber:    "无效的十六进制数: %s",
	ErrInvalidExponent:     "无效的数字: 缺少指数部分",
	ErrInvalidFloat:        "无效的浮点数: %s",
	ErrIntegerOutOfRange:   "字面量 %s 超出范围",

	// ========== 语法分析 ==========
	ErrExpectedToken:       "期望 %s",
	ErrUnexpectedToken:     "意外的 token: %s",
	ErrExpectedExpression:  "期望表达式",
	ErrExpectedIdentifier:  "期望标识符",
	ErrExpectedType:        "期望类型",
	ErrExpectedMember:      "期望类成员",
	ErrExpectedCaseDefault: "期望 'case' 或 'default'",
	ErrDuplicateDefault:    "重复的 'default' 标签",
	ErrCatchOrFinally:      "期望 'catch' 或 'finally'",
	ErrInvalidAssignTarget: "无效的赋值目标",
	ErrTooManyErrors:       "语法错误过多，停止解析",
	ErrNestingTooDeep:      "表达式嵌套过深",

	// ========== 语义分析 ==========
	MsgSyntaxError:  "%s",
	MsgLexicalError: "%s",

	MsgUndefinedName:          "无法解析 %s",
	MsgUndefinedType:          "无法将 %s 解析为类型",
	MsgDuplicateLocal:         "重复的局部变量 %s",
	MsgDuplicateField:         "类型 %[2]s 中重复的字段 %[1]s",
	MsgDuplicateMethod:        "类型 %[2]s 中重复的方法 %[1]s",
	MsgDuplicateType:          "重复的类型 %s",
	MsgNotVisible:             "%s 不可见",
	MsgAmbiguousName:          "%s 有歧义",
	MsgStaticReference:        "不能在静态上下文中引用非静态成员 %s",
	MsgConstructorCallRef:     "显式调用构造函数时不能引用实例成员 %s",
	MsgInheritedNameHides:     "%s 是继承的成员，隐藏了外层作用域中的同名名字",
	MsgHierarchyCycle:         "类型 %s 的继承层次中存在循环",
	MsgLocalHidesField:        "局部变量 %s 隐藏了类型 %s 的字段",
	MsgLocalHidesLocal:        "局部变量 %s 隐藏了另一个局部变量",
	MsgDeprecated:             "%s 已废弃",
	MsgDidYouMean:             "你是否想用 '%s'？",
	MsgDeclareBeforeUse:       "使用前先用 var、let 或 const 声明 '%s'",
	MsgClassMembersQualified:  "实例成员需要通过 'this' 访问",
	MsgInitializeVariableHint: "在声明 '%s' 时进行初始化",

	MsgTypeMismatch:           "类型不匹配: 无法从 %s 转换为 %s",
	MsgInvalidOperator:        "运算符 %s 不能用于参数类型 %s, %s",
	MsgInvalidUnaryOperator:   "运算符 %s 不能用于参数类型 %s",
	MsgNotWritable:            "赋值的左侧必须是变量",
	MsgFinalAssignment:        "%s 是常量，不能赋值",
	MsgMissingReturnValue:     "此函数必须返回 %s 类型的结果",
	MsgVoidReturnValue:        "void 函数不能返回值",
	MsgUndefinedField:         "类型 %[2]s 中未定义字段 %[1]s",
	MsgUndefinedMethod:        "类型 %[2]s 中未定义方法 %[1]s",
	MsgArgumentCount:          "%s 需要 %d 个参数，实际传入 %d 个",
	MsgNotConstructible:       "无法实例化 %s",
	MsgInstanceofRequiresType: "instanceof 的右操作数必须是类型",
	MsgNotCallable:            "%s 类型的表达式不可调用",
	MsgThisInStatic:           "不能在静态上下文中使用 this",
	MsgInvalidSuperCall:       "super 构造调用必须是构造函数的第一条语句",
	MsgConstWithoutInit:       "常量 %s 必须初始化",
	MsgPrimitiveReceiver:      "不能在基本类型 %[2]s 上访问 %[1]s",
	MsgNoEffectAssignment:     "对变量 %s 的赋值没有效果",
	MsgIndirectStaticAccess:   "静态成员 %s 应以静态方式访问",

	MsgUninitializedLocal:     "局部变量 %s 可能尚未初始化",
	MsgUnreachableCode:        "不可达的代码",
	MsgBreakOutside:           "break 不能用在循环或 switch 之外",
	MsgContinueOutside:        "continue 不能用在循环之外",
	MsgUndefinedLabel:         "缺少标签 %s",
	MsgInvalidContinueLabel:   "continue 不能以 %s 为目标，该标签不是循环",
	MsgFallthrough:            "switch 分支可能从上一个分支贯穿进入",
	MsgFinallyNotNormal:       "finally 块不能正常结束",
	MsgUnreachableCatch:       "%s 的 catch 块不可达，try 语句体从不抛出该异常",
	MsgNullReference:          "空指针访问: 变量 %s 在此处只能为 null",
	MsgPotentialNullReference: "潜在的空指针访问: 变量 %s 在此处可能为 null",
	MsgRedundantNonNullCheck:  "多余的空值检查: 变量 %s 在此处不可能为 null",
	MsgRedundantNullCheck:     "多余的空值检查: 变量 %s 在此处只能为 null",
	MsgUnusedLabel:            "标签 %s 从未被显式引用",
	MsgMissingReturn:          "此函数必须返回 %s 类型的结果",

	MsgTooManyProblems:     "问题过多，编译已停止",
	MsgUnitTooManyProblems: "%s 中问题过多，单元的其余部分未被检查",
	MsgMissingBinding:      "%s 无法绑定，未被检查",
	MsgCancelled:           "编译已取消: %s",
	MsgInternalError:       "分析 %s 时发生内部错误: %v",

	// ========== 命令行 ==========
	CliUsage:           "用法: jscheck [选项] 文件...",
	CliNoInput:         "没有输入文件",
	CliReadFailed:      "无法读取 %s: %v",
	CliSummary:         "%d 个错误，%d 个警告，共 %d 个文件",
	CliNotInvestigated: "%s 未被完整检查",
}
