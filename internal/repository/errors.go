package repository

import "errors"

var ErrNotFound = errors.New("задача не найдена")

var ErrEmptyOwner = errors.New("у задачи должен быть владелец")
