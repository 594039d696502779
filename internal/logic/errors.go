package logic

import "errors"

var (
	ErrProjectNotFound      = errors.New("项目不存在")
	ErrContributionNotFound = errors.New("贡献不存在")
)
