package config

import (
	"strings"

	"github.com/schoolapp/school-records/internal/application"
	"github.com/schoolapp/school-records/internal/domain/course"
	"github.com/schoolapp/school-records/internal/domain/teacher"
)

// PolicyConfig toggles write rules that older deployments ran without.
type PolicyConfig struct {
	// CourseDateOrder rejects a course whose start date is after its finish date.
	CourseDateOrder bool

	// TeacherDelete decides what happens to a deleted teacher's courses.
	TeacherDelete teacher.DeletePolicy
}

func loadPolicyConfig() PolicyConfig {
	return PolicyConfig{
		CourseDateOrder: getEnvBool("POLICY_COURSE_DATE_ORDER", true),
		TeacherDelete:   teacher.DeletePolicy(strings.ToLower(getEnv("POLICY_TEACHER_DELETE", string(teacher.DeleteOrphan)))),
	}
}

// Application converts the policy settings into facade policies.
func (p PolicyConfig) Application() application.Policies {
	return application.Policies{
		Course:        course.Rules{SkipDateOrder: !p.CourseDateOrder},
		TeacherDelete: p.TeacherDelete,
	}
}
