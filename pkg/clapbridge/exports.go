package clapbridge

// #include "bridge.h"
import "C"
import (
	pluginapi "github.com/justyntemme/picosine/pkg/plugin"
)

func resolve(h C.uintptr_t) *pluginapi.Instance {
	return pluginapi.Resolve(pluginapi.Handle(h))
}

// clap_plugin_t

//export GoPluginInit
func GoPluginInit(h C.uintptr_t) (ok C.bool) {
	defer recoverPanic("init", func() { ok = false })

	inst := resolve(h)
	if inst == nil {
		return false
	}
	if err := inst.Init(); err != nil {
		log.Error("clap: init: %v", err)
		return false
	}
	return true
}

//export GoPluginDestroy
func GoPluginDestroy(h C.uintptr_t) {
	defer recoverPanic("destroy", nil)

	if inst := resolve(h); inst != nil {
		inst.Destroy()
	}
	pluginapi.Release(pluginapi.Handle(h))
}

//export GoPluginActivate
func GoPluginActivate(h C.uintptr_t, sampleRate C.double, minFrames, maxFrames C.uint32_t) (ok C.bool) {
	defer recoverPanic("activate", func() { ok = false })

	inst := resolve(h)
	if inst == nil {
		return false
	}
	if err := inst.Activate(float64(sampleRate), uint32(minFrames), uint32(maxFrames)); err != nil {
		log.Error("clap: activate: %v", err)
		return false
	}
	return true
}

//export GoPluginDeactivate
func GoPluginDeactivate(h C.uintptr_t) {
	defer recoverPanic("deactivate", nil)

	if inst := resolve(h); inst != nil {
		if err := inst.Deactivate(); err != nil {
			log.Warn("clap: deactivate: %v", err)
		}
	}
}

//export GoPluginStartProcessing
func GoPluginStartProcessing(h C.uintptr_t) (ok C.bool) {
	defer recoverPanic("start processing", func() { ok = false })

	inst := resolve(h)
	if inst == nil {
		return false
	}
	return inst.StartProcessing() == nil
}

//export GoPluginStopProcessing
func GoPluginStopProcessing(h C.uintptr_t) {
	defer recoverPanic("stop processing", nil)

	if inst := resolve(h); inst != nil {
		inst.StopProcessing()
	}
}

//export GoPluginReset
func GoPluginReset(h C.uintptr_t) {
	defer recoverPanic("reset", nil)

	if inst := resolve(h); inst != nil {
		_ = inst.Reset()
	}
}

//export GoPluginProcess
func GoPluginProcess(h C.uintptr_t, p *C.clap_process_t) (status C.clap_process_status) {
	defer recoverPanic("process", func() { status = C.CLAP_PROCESS_ERROR })

	inst := resolve(h)
	if inst == nil {
		return C.CLAP_PROCESS_ERROR
	}
	ctx := inst.Context()
	if ctx == nil {
		return C.CLAP_PROCESS_ERROR
	}

	bindProcess(ctx, p)
	s := inst.Process(ctx)
	pushOutputEvents(ctx.OutputEvents, p.out_events)
	return C.clap_process_status(s)
}

//export GoPluginSupports
func GoPluginSupports(h C.uintptr_t, id *C.char) (ok C.bool) {
	defer recoverPanic("get extension", func() { ok = false })

	inst := resolve(h)
	if inst == nil {
		return false
	}
	return C.bool(inst.SupportsExtension(C.GoString(id)))
}

// clap_plugin_audio_ports_t

//export GoAudioPortsCount
func GoAudioPortsCount(h C.uintptr_t, isInput C.bool) (n C.uint32_t) {
	defer recoverPanic("audio ports count", func() { n = 0 })

	inst := resolve(h)
	if inst == nil {
		return 0
	}
	return C.uint32_t(inst.PortCount(bool(isInput)))
}

//export GoAudioPortsGet
func GoAudioPortsGet(h C.uintptr_t, index C.uint32_t, isInput C.bool, info *C.clap_audio_port_info_t) (ok C.bool) {
	defer recoverPanic("audio ports get", func() { ok = false })

	inst := resolve(h)
	if inst == nil {
		return false
	}
	port, err := inst.PortInfo(uint32(index), bool(isInput))
	if err != nil {
		return false
	}

	info.id = C.clap_id(port.ID)
	copyCString(&info.name[0], len(info.name), port.Name)
	info.flags = C.uint32_t(port.Flags)
	info.channel_count = C.uint32_t(port.ChannelCount)
	info.port_type = portType(port.PortType)
	info.in_place_pair = C.clap_id(port.InPlacePair)
	return true
}

// clap_plugin_params_t

//export GoParamsCount
func GoParamsCount(h C.uintptr_t) (n C.uint32_t) {
	defer recoverPanic("params count", func() { n = 0 })

	inst := resolve(h)
	if inst == nil {
		return 0
	}
	return C.uint32_t(inst.ParamCount())
}

//export GoParamsGetInfo
func GoParamsGetInfo(h C.uintptr_t, index C.uint32_t, info *C.clap_param_info_t) (ok C.bool) {
	defer recoverPanic("params get info", func() { ok = false })

	inst := resolve(h)
	if inst == nil {
		return false
	}
	p, err := inst.ParamInfo(uint32(index))
	if err != nil {
		return false
	}

	info.id = C.clap_id(p.ID)
	info.flags = C.clap_param_info_flags(p.Flags)
	info.cookie = nil
	copyCString(&info.name[0], len(info.name), p.Name)
	copyCString(&info.module[0], len(info.module), p.Module)
	info.min_value = C.double(p.MinValue)
	info.max_value = C.double(p.MaxValue)
	info.default_value = C.double(p.DefaultValue)
	return true
}

//export GoParamsGetValue
func GoParamsGetValue(h C.uintptr_t, id C.clap_id, out *C.double) (ok C.bool) {
	defer recoverPanic("params get value", func() { ok = false })

	inst := resolve(h)
	if inst == nil {
		return false
	}
	v, err := inst.ParamValue(uint32(id))
	if err != nil {
		return false
	}
	*out = C.double(v)
	return true
}

//export GoParamsValueToText
func GoParamsValueToText(h C.uintptr_t, id C.clap_id, value C.double, buf *C.char, capacity C.uint32_t) (ok C.bool) {
	defer recoverPanic("params value to text", func() { ok = false })

	inst := resolve(h)
	if inst == nil {
		return false
	}
	text, err := inst.ValueToText(uint32(id), float64(value))
	if err != nil {
		return false
	}
	copyCString(buf, int(capacity), text)
	return true
}

//export GoParamsTextToValue
func GoParamsTextToValue(h C.uintptr_t, id C.clap_id, text *C.char, out *C.double) (ok C.bool) {
	defer recoverPanic("params text to value", func() { ok = false })

	inst := resolve(h)
	if inst == nil {
		return false
	}
	v, err := inst.TextToValue(uint32(id), C.GoString(text))
	if err != nil {
		log.Debug("clap: text to value: %v", err)
		return false
	}
	*out = C.double(v)
	return true
}

//export GoParamsFlush
func GoParamsFlush(h C.uintptr_t, in *C.clap_input_events_t, out *C.clap_output_events_t) {
	defer recoverPanic("params flush", nil)

	inst := resolve(h)
	if inst == nil {
		return
	}

	// The block context is free outside of process, so its event storage is reused.
	events := flushScratch(inst)
	events = appendEvents(events, in)
	if err := inst.Flush(events); err != nil {
		log.Warn("clap: flush: %v", err)
	}
}
