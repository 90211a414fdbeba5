package logging

import (
	"io"
	"os"
)

// LoggingBuilder 日志构建器
type LoggingBuilder struct {
	output       io.Writer
	formatter    Formatter
	minimumLevel LogLevel
	category     string
}

// NewLoggingBuilder 创建日志构建器
func NewLoggingBuilder() *LoggingBuilder {
	return &LoggingBuilder{
		output:       os.Stdout,
		formatter:    NewTextFormatter(),
		minimumLevel: LogLevelInfo,
	}
}

// SetMinimumLevel 设置最小日志级别
func (b *LoggingBuilder) SetMinimumLevel(level LogLevel) *LoggingBuilder {
	b.minimumLevel = level
	return b
}

// SetOutput 设置输出目标
func (b *LoggingBuilder) SetOutput(w io.Writer) *LoggingBuilder {
	b.output = w
	return b
}

// UseJson 使用 JSON 格式输出
func (b *LoggingBuilder) UseJson() *LoggingBuilder {
	b.formatter = NewJsonFormatter()
	return b
}

// UseFormatter 使用自定义格式化器
func (b *LoggingBuilder) UseFormatter(f Formatter) *LoggingBuilder {
	b.formatter = f
	return b
}

// WithCategory 设置日志类别
func (b *LoggingBuilder) WithCategory(category string) *LoggingBuilder {
	b.category = category
	return b
}

// Build 构建 Logger
func (b *LoggingBuilder) Build() Logger {
	out := b.output
	return &writerLogger{
		sink:         &sink{out: out.Write},
		formatter:    b.formatter,
		minimumLevel: b.minimumLevel,
		category:     b.category,
	}
}

// NewLogger 创建默认的控制台 Logger
func NewLogger() Logger {
	return NewLoggingBuilder().Build()
}
