package logging

import (
	"encoding/csv"
	"fmt"
	"io"
)

// Header 日志表的表头，与 LogEntry.Row 的列顺序一致
var Header = []string{"ts", "level", "step", "stage", "message", "extra"}

// Row 将条目转换为一行表格数据
func (e LogEntry) Row() []string {
	return []string{
		e.Timestamp(),
		e.Level.String(),
		e.Step,
		e.Stage,
		e.Message,
		e.Extra,
	}
}

// Rows 返回表头加全部条目，可直接追加到日志表
func Rows(entries []LogEntry) [][]string {
	rows := make([][]string, 0, len(entries)+1)
	rows = append(rows, append([]string(nil), Header...))
	for _, e := range entries {
		rows = append(rows, e.Row())
	}
	return rows
}

// WriteCSV 以 CSV 写出表头和全部条目
func WriteCSV(w io.Writer, entries []LogEntry) error {
	cw := csv.NewWriter(w)
	if err := cw.WriteAll(Rows(entries)); err != nil {
		return fmt.Errorf("write csv: %w", err)
	}
	return nil
}

// WriteJSONL 每行一个 JSON 对象写出全部条目
func WriteJSONL(w io.Writer, entries []LogEntry) error {
	f := NewJsonFormatter()
	for i := range entries {
		data, err := f.Format(&entries[i])
		if err != nil {
			return fmt.Errorf("format entry %d: %w", i, err)
		}
		data = append(data, '\n')
		if _, err := w.Write(data); err != nil {
			return fmt.Errorf("write entry %d: %w", i, err)
		}
	}
	return nil
}
