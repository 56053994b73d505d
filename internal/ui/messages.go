package ui

import (
	"jpaudio/internal/model"
	"jpaudio/internal/progress"
)

type noticeMsg struct {
	N progress.Notice
}

type jobUpdateMsg struct {
	U progress.Update
}

type jobLogMsg struct {
	L progress.Log
}

type jobResultMsg struct {
	R progress.Result
}

type batchDoneMsg struct {
	Results []model.FileResult
}

// interruptMsg asks the model to cancel the batch, as on SIGINT.
type interruptMsg struct{}
