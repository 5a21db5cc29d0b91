package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/Eepsita12/online-lecture-scheduling-system/internal/model"
	"github.com/Eepsita12/online-lecture-scheduling-system/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoLectures   = errors.New("暂无排课记录")
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
// 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportLectures 导出全部排课为 Excel，返回内容与建议文件名
	ExportLectures(ctx context.Context) (*bytes.Buffer, string, error)
}

type exportService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewExportService 创建 ExportService 实例
func NewExportService(repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{repo: repo, logger: logger, now: time.Now}
}

const lectureSheet = "排课表"

var lectureHeaders = []string{"日期", "课程", "难度", "讲师", "讲师邮箱"}

// ═══════════════════════════════════════════════════════════
// ExportLectures 导出排课表为 Excel
// ═══════════════════════════════════════════════════════════
//
// 输出格式：
//   - 单个 Sheet "排课表"
//   - 第 1 行表头，之后每行一节课
//   - 按日期升序，同日按插入顺序

func (s *exportService) ExportLectures(ctx context.Context) (*bytes.Buffer, string, error) {
	lectures, err := s.repo.Lecture.List(ctx)
	if err != nil {
		s.logger.Error("查询排课列表失败", zap.Error(err))
		return nil, "", err
	}
	if len(lectures) == 0 {
		return nil, "", ErrExportNoLectures
	}

	// List 已按 seq 排序，稳定排序保留同日的插入顺序
	sort.SliceStable(lectures, func(i, j int) bool {
		return lectures[i].LectureDate.Before(lectures[j].LectureDate)
	})

	f := excelize.NewFile()
	defer f.Close()

	idx, err := f.NewSheet(lectureSheet)
	if err != nil {
		s.logger.Error("创建 Sheet 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}
	f.SetActiveSheet(idx)
	// 删除默认 Sheet1
	f.DeleteSheet("Sheet1")

	// 设置列宽
	f.SetColWidth(lectureSheet, "A", "A", 14)
	f.SetColWidth(lectureSheet, "B", "B", 28)
	f.SetColWidth(lectureSheet, "C", "C", 14)
	f.SetColWidth(lectureSheet, "D", "D", 18)
	f.SetColWidth(lectureSheet, "E", "E", 30)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 表头
	for i, h := range lectureHeaders {
		f.SetCellValue(lectureSheet, cell(colName(i), 1), h)
	}
	f.SetCellStyle(lectureSheet, "A1", cell(colName(len(lectureHeaders)-1), 1), headerStyle)

	// 数据行
	for i := range lectures {
		row := i + 2
		for col, v := range lectureRow(&lectures[i]) {
			f.SetCellValue(lectureSheet, cell(colName(col), row), v)
		}
	}

	// 写入 buffer
	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("排课表_%s.xlsx", s.now().UTC().Format("20060102"))
	return buf, filename, nil
}

// ── 辅助函数 ──

func lectureRow(l *model.Lecture) []string {
	courseName, level := "-", "-"
	if l.Course != nil {
		courseName = l.Course.Name
		level = string(l.Course.Level)
	}
	instructorName, instructorEmail := "-", "-"
	if l.Instructor != nil {
		instructorName = l.Instructor.Name
		instructorEmail = l.Instructor.Email
	}
	return []string{l.DateString(), courseName, level, instructorName, instructorEmail}
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
