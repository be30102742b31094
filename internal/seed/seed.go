package seed

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/sysu-ecnc-dev/timetable-manager/backend/internal/domain"
	"github.com/sysu-ecnc-dev/timetable-manager/backend/internal/repository"
	"github.com/sysu-ecnc-dev/timetable-manager/backend/internal/utils"
)

var demoSubjects = []domain.Subject{
	{SubjectName: "高等数学", SubjectCode: "MATH101", Credits: 4, Department: "数学学院", Semester: 1},
	{SubjectName: "线性代数", SubjectCode: "MATH102", Credits: 3, Department: "数学学院", Semester: 2},
	{SubjectName: "大学物理", SubjectCode: "PHYS101", Credits: 4, Department: "物理学院", Semester: 1},
	{SubjectName: "程序设计基础", SubjectCode: "CS101", Credits: 3, Department: "计算机学院", Semester: 1},
	{SubjectName: "数据结构", SubjectCode: "CS201", Credits: 4, Department: "计算机学院", Semester: 3},
	{SubjectName: "大学英语", SubjectCode: "ENG101", Credits: 2, Department: "外国语学院", Semester: 1},
}

var demoClasses = []domain.ClassGroup{
	{ClassName: "计算机2024级1班", CourseCode: "CS2024-1", Department: "计算机学院", Semester: 1},
	{ClassName: "计算机2024级2班", CourseCode: "CS2024-2", Department: "计算机学院", Semester: 1},
	{ClassName: "数学2024级1班", CourseCode: "MATH2024-1", Department: "数学学院", Semester: 1},
	{ClassName: "物理2024级1班", CourseCode: "PHYS2024-1", Department: "物理学院", Semester: 1},
}

// demoSlotTimes 是每天的标准上课时段，错开排布保证同一教师不会被排出冲突
var demoSlotTimes = [][2]string{
	{"08:00", "09:40"},
	{"10:00", "11:40"},
	{"14:00", "15:40"},
	{"16:00", "17:40"},
}

var demoDays = []domain.Day{domain.DayMonday, domain.DayTuesday, domain.DayWednesday, domain.DayThursday, domain.DayFriday}

// SeedDemoData 插入一批演示数据：科目、班级、教师以及无冲突的课表。
// 每一步失败时只记录日志并继续，方便在部分数据已存在时重复执行。
func SeedDemoData(r *repository.Repository, facultyPassword string, emailDomainName string) {
	// 插入科目
	subjects := make([]*domain.Subject, 0, len(demoSubjects))
	for i := range demoSubjects {
		subject := demoSubjects[i]
		if err := r.CreateSubject(&subject); err != nil {
			slog.Error("插入科目失败", "subjectCode", subject.SubjectCode, "error", err)
			continue
		}
		subjects = append(subjects, &subject)
	}

	// 插入班级
	classes := make([]*domain.ClassGroup, 0, len(demoClasses))
	for i := range demoClasses {
		class := demoClasses[i]
		if err := r.CreateClassGroup(&class); err != nil {
			slog.Error("插入班级失败", "className", class.ClassName, "error", err)
			continue
		}
		classes = append(classes, &class)
	}

	if len(subjects) == 0 || len(classes) == 0 {
		slog.Error("没有可用的科目或班级，跳过课表生成")
		return
	}

	// 插入教师，每个班级分配两名
	faculty := make([]*domain.User, 0, 2*len(classes))
	for i := 0; i < 2*len(classes); i++ {
		user, err := utils.GenerateRandomUser(domain.RoleFaculty, facultyPassword, emailDomainName)
		if err != nil {
			slog.Error("生成教师失败", "error", err)
			continue
		}
		if err := r.CreateUser(user); err != nil {
			slog.Error("插入教师失败", "username", user.Username, "error", err)
			continue
		}
		faculty = append(faculty, user)
	}

	if len(faculty) == 0 {
		slog.Error("没有可用的教师，跳过课表生成")
		return
	}

	// 为每个班级的每个工作日排满标准时段，
	// 轮转分配教师和科目，同一时段不同班级用不同教师
	inserted := 0
	for classIdx, class := range classes {
		for _, day := range demoDays {
			for slotIdx, times := range demoSlotTimes {
				subject := subjects[(classIdx+slotIdx)%len(subjects)]
				teacher := faculty[(classIdx+slotIdx*len(classes))%len(faculty)]

				slot := &domain.TimeSlot{
					StartTime: times[0],
					EndTime:   times[1],
					SubjectID: subject.ID,
					FacultyID: teacher.ID,
					Classroom: demoClassroom(classIdx, slotIdx),
				}

				if _, err := r.UpsertSlot(class.ID, day, slot); err != nil {
					slog.Error("插入课表时段失败", "classID", class.ID, "day", day, "error", err)
					continue
				}
				inserted++
			}
		}
	}

	slog.Info("插入演示数据完成", "subjects", len(subjects), "classes", len(classes), "faculty", len(faculty), "timeSlots", inserted)
}

var demoClassrooms = []string{"A101", "A102", "B201", "B202", "C301", "C302", "D401", "D402"}

func demoClassroom(classIdx int, slotIdx int) string {
	return demoClassrooms[(classIdx*len(demoSlotTimes)+slotIdx)%len(demoClassrooms)]
}

// SeedRandomSchedules 在未来两周内随机插入 n 条一次性授课安排，
// 复用仓库的冲突检查，和已有课表冲突的安排会被跳过
func SeedRandomSchedules(r *repository.Repository, n int) {
	faculty, err := r.GetActiveUsersByRole(domain.RoleFaculty)
	if err != nil || len(faculty) == 0 {
		slog.Error("没有可用的教师，请先插入教师", "error", err)
		return
	}

	classes, err := r.GetAllClassGroups()
	if err != nil || len(classes) == 0 {
		slog.Error("没有可用的班级，请先插入演示数据", "error", err)
		return
	}

	subjects, err := r.GetAllSubjects()
	if err != nil || len(subjects) == 0 {
		slog.Error("没有可用的科目，请先插入演示数据", "error", err)
		return
	}

	inserted := 0
	for i := 0; i < n; i++ {
		startTime, endTime := utils.GenerateRandomTimeSlotTimes()

		schedule := &domain.Schedule{
			Date:      domain.DateOnly(time.Now().AddDate(0, 0, rand.Intn(14)+1)),
			StartTime: startTime,
			EndTime:   endTime,
			Classroom: utils.GenerateRandomClassroom(),
			ClassID:   classes[rand.Intn(len(classes))].ID,
			FacultyID: faculty[rand.Intn(len(faculty))].ID,
			SubjectID: subjects[rand.Intn(len(subjects))].ID,
			Status:    domain.ScheduleStatusActive,
		}

		if err := r.CreateSchedule(schedule); err != nil {
			slog.Error("插入授课安排失败", "date", schedule.Date.Format("2006-01-02"), "error", err)
			continue
		}
		inserted++
	}

	slog.Info("插入随机授课安排完成", "inserted", inserted, "requested", n)
}
