package validator

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
)

func (v *Validator) registerCustomTranslations() {
	if enTrans := v.translator(LangEN); enTrans != nil {
		for tag, message := range map[string]string{
			TagNoWhitespace: "{0} must not contain whitespace characters",
			TagTrimmed:      "{0} must not have leading or trailing spaces",
			TagSlug:         "{0} must be a valid URL slug (lowercase letters, numbers, and hyphens)",
			TagURLPrefix:    "{0} must be a path prefix without leading or trailing slashes",
		} {
			registerTranslation(v.validate, enTrans, tag, message)
		}
	}

	if zhTrans := v.translator(LangZH); zhTrans != nil {
		for tag, message := range map[string]string{
			TagNoWhitespace: "{0}不能包含空白字符",
			TagTrimmed:      "{0}不能有前导或尾随空格",
			TagSlug:         "{0}必须是有效的URL别名（小写字母、数字和连字符）",
			TagURLPrefix:    "{0}必须是不以斜杠开头或结尾的路径前缀",
		} {
			registerTranslation(v.validate, zhTrans, tag, message)
		}
	}
}

func registerTranslation(validate *validator.Validate, trans ut.Translator, tag, message string) {
	_ = validate.RegisterTranslation(tag, trans,
		func(ut ut.Translator) error {
			return ut.Add(tag, message, true)
		},
		func(ut ut.Translator, fe validator.FieldError) string {
			t, _ := ut.T(tag, fe.Field())
			return t
		},
	)
}
