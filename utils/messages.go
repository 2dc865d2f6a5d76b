package utils

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const invalidCredentialsKey = "Wrong username or password (demo account: student / 1234)"

var supportedLanguages = []language.Tag{
	language.English,
	language.SimplifiedChinese,
}

var languageMatcher = language.NewMatcher(supportedLanguages)

func init() {
	message.SetString(language.English, invalidCredentialsKey, invalidCredentialsKey)
	message.SetString(language.SimplifiedChinese, invalidCredentialsKey, "用户名或密码不对（demo账号：student / 1234）")
}

// InvalidCredentialsMessage returns the login failure text in the best
// language for the given Accept-Language header, English otherwise.
func InvalidCredentialsMessage(acceptLanguage string) string {
	return message.NewPrinter(matchLanguage(acceptLanguage)).Sprintf(invalidCredentialsKey)
}

func matchLanguage(acceptLanguage string) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return language.English
	}
	_, index, confidence := languageMatcher.Match(tags...)
	if confidence == language.No {
		return language.English
	}
	return supportedLanguages[index]
}
